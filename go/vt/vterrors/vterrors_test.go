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

package vterrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrCodeRoundTrips(t *testing.T) {
	err := Errorf(Internal, "fragment %d: boom", 3)
	assert.Equal(t, Internal, ErrCode(err))
	assert.Equal(t, "fragment 3: boom", err.Error())
}

func TestErrCodeOfPlainErrorIsUnknown(t *testing.T) {
	assert.Equal(t, Unknown, ErrCode(errors.New("plain")))
	assert.Equal(t, Unknown, ErrCode(nil))
}

func TestWrapPreservesCode(t *testing.T) {
	err := New(NotFound, "missing")
	wrapped := Wrap(err, "resolving function")
	assert.Equal(t, NotFound, ErrCode(wrapped))
	assert.Contains(t, wrapped.Error(), "resolving function")
	assert.Contains(t, wrapped.Error(), "missing")
}

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "unused"))
}

func TestAggregateNilOnNoErrors(t *testing.T) {
	assert.NoError(t, Aggregate(nil))
	assert.NoError(t, Aggregate([]error{nil, nil}))
}

func TestAggregateCollectsAllErrors(t *testing.T) {
	err := Aggregate([]error{
		Errorf(Internal, "first"),
		nil,
		Errorf(Internal, "second"),
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}
