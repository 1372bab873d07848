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

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqeio/fragmenter/go/vt/vterrors"
	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
	"github.com/dqeio/fragmenter/go/vt/vtgate/planbuilder/catalog"
)

func newTestContext(t *testing.T, session Session) *Context {
	t.Helper()
	ctx, err := New(session, Options{}, catalog.NewDefaultCatalog(),
		engine.NewSymbolAllocator("t"), engine.NewNodeIDAllocator(0), engine.NewFragmentIDAllocator())
	require.NoError(t, err)
	return ctx
}

func TestNewRejectsNilCollaborators(t *testing.T) {
	valid := func() (Session, catalog.Catalog, *engine.SymbolAllocator, *engine.NodeIDAllocator, *engine.FragmentIDAllocator) {
		return NewViperSession(nil), catalog.NewDefaultCatalog(), engine.NewSymbolAllocator("t"), engine.NewNodeIDAllocator(0), engine.NewFragmentIDAllocator()
	}

	session, cat, symbols, nodeIDs, fragmentIDs := valid()
	_, err := New(nil, Options{}, cat, symbols, nodeIDs, fragmentIDs)
	require.Error(t, err)
	assert.Equal(t, vterrors.InvalidArgument, vterrors.ErrCode(err))

	session, cat, symbols, nodeIDs, fragmentIDs = valid()
	_, err = New(session, Options{}, nil, symbols, nodeIDs, fragmentIDs)
	require.Error(t, err)

	session, cat, symbols, nodeIDs, fragmentIDs = valid()
	_, err = New(session, Options{}, cat, nil, nodeIDs, fragmentIDs)
	require.Error(t, err)

	session, cat, symbols, nodeIDs, fragmentIDs = valid()
	_, err = New(session, Options{}, cat, symbols, nil, fragmentIDs)
	require.Error(t, err)

	session, cat, symbols, nodeIDs, fragmentIDs = valid()
	_, err = New(session, Options{}, cat, symbols, nodeIDs, nil)
	require.Error(t, err)
}

func TestBigQueryEnabledReadsSessionFlag(t *testing.T) {
	v := viper.New()
	v.Set(BigQueryEnabledKey, true)
	ctx := newTestContext(t, NewViperSession(v))
	assert.True(t, ctx.BigQueryEnabled())
}

func TestNilViperDefaultsToFalse(t *testing.T) {
	ctx := newTestContext(t, NewViperSession(nil))
	assert.False(t, ctx.BigQueryEnabled())
}
