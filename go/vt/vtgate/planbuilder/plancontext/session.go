/*
Copyright 2024 The Fragmenter Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package plancontext

import "github.com/spf13/viper"

// Session is the session/config bag the fragmenter reads feature
// flags from. It is treated as an external collaborator: this package
// supplies one concrete implementation for tests and simple
// embeddings, but production callers are expected to bring their own.
type Session interface {
	// GetBool returns the boolean value of key, or false if unset.
	GetBool(key string) bool
}

// BigQueryEnabledKey is the one session key the MarkDistinct rule
// reads.
const BigQueryEnabledKey = "big_query_enabled"

// ViperSession adapts a *viper.Viper instance to the Session
// interface, fronting a larger config source with a narrow,
// purpose-built lookup facade.
type ViperSession struct {
	v *viper.Viper
}

// NewViperSession wraps v. A nil v is treated as an all-defaults
// session (every key reads false).
func NewViperSession(v *viper.Viper) *ViperSession {
	if v == nil {
		v = viper.New()
	}
	return &ViperSession{v: v}
}

// GetBool implements Session.
func (s *ViperSession) GetBool(key string) bool {
	return s.v.GetBool(key)
}

var _ Session = (*ViperSession)(nil)
