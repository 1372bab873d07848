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

package fragment

import (
	"go.uber.org/zap"

	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
)

// log is the package-level base logger, defaulted to a no-op so that
// embedding this package never forces a logging dependency onto a
// caller that doesn't want one. Callers wire their own sink with
// SetLogger, letting a binary configure logging without every package
// taking a constructor argument for it. Fragment tags a child of log
// with a fresh correlation id on every call and threads that child
// through plancontext.Context for the duration of the rewrite, so
// every log line from one Fragment(...) invocation carries the same
// id.
var log = zap.NewNop()

// SetLogger overrides the package-level logger. Passing nil restores
// the no-op default.
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log = logger
}

func zapDistribution(d engine.Distribution) zap.Field {
	return zap.String("distribution", d.String())
}

func zapFragmentID(id engine.PlanFragmentId) zap.Field {
	return zap.Stringer("fragment_id", id)
}

func zapChildCount(n int) zap.Field {
	return zap.Int("children", n)
}

func zapOperator(k engine.OperatorKind) zap.Field {
	return zap.String("operator", k.String())
}
