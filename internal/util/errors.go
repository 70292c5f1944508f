// Copyright 2026 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package util holds small cross-cutting helpers: the dump error
// taxonomy and the exit-code mapping the CLI uses.
package util

import "fmt"

// Category names one of the seven fatal error classes a dump run can
// terminate with.
type Category string

const (
	CategoryConfig         Category = "CONFIG_ERROR"
	CategoryConnection     Category = "CONNECTION_ERROR"
	CategorySchemaTool     Category = "SCHEMA_TOOL_ERROR"
	CategoryStreaming      Category = "STREAMING_ERROR"
	CategoryDecoding       Category = "DECODING_ERROR"
	CategoryTransformation Category = "TRANSFORMATION_ERROR"
	CategoryWriter         Category = "WRITER_ERROR"
)

// DumpError is the interface every fatal dump error satisfies.
type DumpError interface {
	error
	Category() Category
	Unwrap() error
}

type dumpError struct {
	category Category
	msg      string
	cause    error
}

var _ DumpError = (*dumpError)(nil)

func (e *dumpError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *dumpError) Category() Category { return e.category }

func (e *dumpError) Unwrap() error { return e.cause }

func newError(category Category, msg string, cause error) *dumpError {
	return &dumpError{category: category, msg: msg, cause: cause}
}

func NewConfigError(msg string, cause error) DumpError {
	return newError(CategoryConfig, msg, cause)
}

func NewConnectionError(msg string, cause error) DumpError {
	return newError(CategoryConnection, msg, cause)
}

func NewSchemaToolError(msg string, cause error) DumpError {
	return newError(CategorySchemaTool, msg, cause)
}

func NewStreamingError(msg string, cause error) DumpError {
	return newError(CategoryStreaming, msg, cause)
}

func NewDecodingError(msg string, cause error) DumpError {
	return newError(CategoryDecoding, msg, cause)
}

func NewTransformationError(msg string, cause error) DumpError {
	return newError(CategoryTransformation, msg, cause)
}

func NewWriterError(msg string, cause error) DumpError {
	return newError(CategoryWriter, msg, cause)
}

// ExitCode maps any error to a process exit code: 0 only for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
