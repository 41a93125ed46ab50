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

package errs

import "strings"

// Error is the interface every CodeError.Error() value satisfies. It behaves
// like a normal Go error but also exposes the numeric Code and any parent
// errors it wraps (e.g. the underlying os.PathError for a disk failure).
type Error interface {
	error
	Code() CodeError
	Parents() []error
	Is(err error) bool
}

type codeErr struct {
	code    CodeError
	parents []error
}

func (e *codeErr) Code() CodeError {
	return e.code
}

func (e *codeErr) Parents() []error {
	return append(make([]error, 0, len(e.parents)), e.parents...)
}

func (e *codeErr) Error() string {
	msg := e.code.Message()

	if len(e.parents) == 0 {
		return msg
	}

	var sb strings.Builder
	sb.WriteString(msg)
	for _, p := range e.parents {
		sb.WriteString(": ")
		sb.WriteString(p.Error())
	}
	return sb.String()
}

func (e *codeErr) Is(err error) bool {
	if err == nil {
		return false
	}
	if o, ok := err.(Error); ok {
		return o.Code() == e.code
	}
	return false
}
