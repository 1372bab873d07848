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

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqeio/fragmenter/go/vt/vterrors"
	"github.com/dqeio/fragmenter/go/vt/vtgate/engine"
)

func TestDefaultCatalogCountIsDecomposable(t *testing.T) {
	c := NewDefaultCatalog()
	info, err := c.ResolveFunction(Signature{Name: "count", Arity: 0})
	require.NoError(t, err)
	assert.True(t, info.IsDecomposable())
	assert.Equal(t, engine.Type("bigint"), info.IntermediateType())
}

func TestDefaultCatalogSumIsDecomposable(t *testing.T) {
	c := NewDefaultCatalog()
	info, err := c.ResolveFunction(Signature{Name: "sum", Arity: 1})
	require.NoError(t, err)
	assert.True(t, info.IsDecomposable())
	assert.Equal(t, engine.Type("double"), info.IntermediateType())
}

func TestDefaultCatalogApproxPercentileIsNotDecomposable(t *testing.T) {
	c := NewDefaultCatalog()
	info, err := c.ResolveFunction(Signature{Name: "approx_percentile", Arity: 2})
	require.NoError(t, err)
	assert.False(t, info.IsDecomposable())
}

func TestResolveUnknownFunctionIsNotFound(t *testing.T) {
	c := NewDefaultCatalog()
	_, err := c.ResolveFunction(Signature{Name: "nonexistent", Arity: 1})
	require.Error(t, err)
	assert.Equal(t, vterrors.NotFound, vterrors.ErrCode(err))
}

func TestRegisterOverwritesExistingSignature(t *testing.T) {
	c := NewStaticCatalog()
	c.Register(Signature{Name: "sum", Arity: 1}, NewDecomposableFunction("sum", "double"))
	c.Register(Signature{Name: "sum", Arity: 1}, NewNonDecomposableFunction("sum"))

	info, err := c.ResolveFunction(Signature{Name: "sum", Arity: 1})
	require.NoError(t, err)
	assert.False(t, info.IsDecomposable())
}
