/*
 * MIT License
 *
 * Copyright (c) 2024 pixelserv-tls contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package errs provides a small HTTP-status-flavored error code type shared
// by every package in this module, modeled on the code-range-per-package
// pattern used throughout the teacher library's own errors package.
package errs

import "strconv"

// CodeError is a numeric error code, analogous to an HTTP status code.
// Every package reserves a contiguous range of these (see modules.go) and
// defines its own named constants inside that range.
type CodeError uint16

// UnknownError is returned when no package-specific code applies.
const UnknownError CodeError = 0

var registry = make(map[CodeError]string)

// Register associates a human-readable message with a code. Called from
// each package's init().
func Register(code CodeError, message string) {
	registry[code] = message
}

// Message returns the registered message for a code, or a generic fallback.
func (c CodeError) Message() string {
	if c == UnknownError {
		return "unknown error"
	}
	if m, ok := registry[c]; ok && m != "" {
		return m
	}
	return "unregistered error code " + c.String()
}

// String renders the numeric code.
func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}

// Error builds a new Error value from this code plus optional parents.
func (c CodeError) Error(parents ...error) Error {
	return &codeErr{code: c, parents: filterNil(parents)}
}

// ErrorParent is a convenience for the common case of wrapping exactly one
// lower-level error (e.g. an os.PathError from disk I/O).
func (c CodeError) ErrorParent(parent error) Error {
	if parent == nil {
		return c.Error()
	}
	return c.Error(parent)
}

func filterNil(in []error) []error {
	out := make([]error, 0, len(in))
	for _, e := range in {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
