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

// Package vterrors defines the error codes used throughout the
// fragmenter, and small helpers to build and inspect them.
package vterrors

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	pkgerrors "github.com/pkg/errors"
)

// Code classifies why a fragmenter operation failed.
type Code int

const (
	// Unknown is the zero value; ErrCode reports it for errors that
	// carry no code, including a plain error passed through Wrap.
	Unknown Code = iota
	// InvalidArgument means the caller supplied a plan the fragmenter
	// cannot make sense of (missing allocator, nil session, etc).
	InvalidArgument
	// Unimplemented means the operator or join type is recognized by
	// the type system but this component has no rewrite rule for it.
	Unimplemented
	// Internal means an invariant the rewriter itself is supposed to
	// maintain was violated; it indicates a bug in a rewrite rule.
	Internal
	// NotFound means a catalog lookup came back empty.
	NotFound
	// FailedPrecondition means the sanity check rejected the finished
	// fragment DAG.
	FailedPrecondition
)

func (c Code) String() string {
	switch c {
	case InvalidArgument:
		return "InvalidArgument"
	case Unimplemented:
		return "Unimplemented"
	case Internal:
		return "Internal"
	case NotFound:
		return "NotFound"
	case FailedPrecondition:
		return "FailedPrecondition"
	default:
		return "Unknown"
	}
}

// codedError pairs a Code with the underlying error so it can be
// recovered later with Code(err).
type codedError struct {
	code Code
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

// New builds an error carrying code with the given message.
func New(code Code, message string) error {
	return &codedError{code: code, err: errors.New(message)}
}

// Errorf builds an error carrying code with a formatted message.
func Errorf(code Code, format string, args ...any) error {
	return &codedError{code: code, err: fmt.Errorf(format, args...)}
}

// Wrap adds context to err without discarding its code.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	wrapped := pkgerrors.Wrap(err, message)
	if ce, ok := asCoded(err); ok {
		return &codedError{code: ce.code, err: wrapped}
	}
	return &codedError{code: Unknown, err: wrapped}
}

// ErrCode extracts the Code carried by err, or Unknown if err was not
// built through this package.
func ErrCode(err error) Code {
	if ce, ok := asCoded(err); ok {
		return ce.code
	}
	return Unknown
}

func asCoded(err error) (*codedError, bool) {
	var ce *codedError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Aggregate combines zero or more errors into one. A nil slice, or a
// slice of all-nil errors, aggregates to nil. The sanity check keeps
// walking past a first violation so it can report every invariant
// break in one pass instead of stopping at the first.
func Aggregate(errs []error) error {
	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result == nil {
		return nil
	}
	return result
}
