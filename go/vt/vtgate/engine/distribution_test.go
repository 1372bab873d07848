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

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistributionIsDistributed(t *testing.T) {
	assert.True(t, Source.IsDistributed())
	assert.True(t, Fixed.IsDistributed())
	assert.False(t, CoordinatorOnly.IsDistributed())
	assert.False(t, None.IsDistributed())
}

func TestHashPartitioningKeyDigestOrderIndependent(t *testing.T) {
	a := NewSymbol("a", "bigint")
	b := NewSymbol("b", "bigint")

	p1 := HashPartitioning([]*Symbol{a, b}, nil)
	p2 := HashPartitioning([]*Symbol{b, a}, nil)

	assert.True(t, p1.IsHash())
	assert.Equal(t, p1.KeyDigest(), p2.KeyDigest())
	assert.True(t, p1.KeySet().Equal(p2.KeySet()))
}

func TestNoPartitioningIsNotHash(t *testing.T) {
	assert.False(t, NoPartitioning.IsHash())
	assert.Equal(t, uint64(0), NoPartitioning.KeyDigest())
}

func TestKeyDigestDistinguishesDifferentKeySets(t *testing.T) {
	a := NewSymbol("a", "bigint")
	b := NewSymbol("b", "bigint")
	c := NewSymbol("c", "bigint")

	p1 := HashPartitioning([]*Symbol{a, b}, nil)
	p2 := HashPartitioning([]*Symbol{a, c}, nil)
	assert.NotEqual(t, p1.KeyDigest(), p2.KeyDigest())
}
