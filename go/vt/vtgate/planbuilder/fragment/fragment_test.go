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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
	"github.com/dqeio/fragmenter/go/vt/vtgate/planbuilder/catalog"
	"github.com/dqeio/fragmenter/go/vt/vtgate/planbuilder/plancontext"
)

// testSession is a minimal Session for tests that don't care about
// viper wiring.
type testSession map[string]bool

func (s testSession) GetBool(key string) bool { return s[key] }

func newTestContext(t *testing.T, opts plancontext.Options) *plancontext.Context {
	t.Helper()
	ctx, err := plancontext.New(
		testSession{},
		opts,
		catalog.NewDefaultCatalog(),
		engine.NewSymbolAllocator("t"),
		engine.NewNodeIDAllocator(0),
		engine.NewFragmentIDAllocator(),
	)
	require.NoError(t, err)
	return ctx
}

func col(name string) *engine.Symbol { return engine.NewSymbol(name, "bigint") }
