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

package main

import "testing"

func TestRun_RejectsBadFlags(t *testing.T) {
	code := run([]string{"--log-level=9"})
	if code != 2 {
		t.Fatalf("got exit code %d, want 2", code)
	}
}

func TestRun_RejectsTooManyPorts(t *testing.T) {
	args := []string{}
	for i := 0; i < 17; i++ {
		args = append(args, "-p", "8080")
	}
	code := run(args)
	if code != 2 {
		t.Fatalf("got exit code %d, want 2", code)
	}
}

func TestDropPrivileges_EmptyNameIsNoop(t *testing.T) {
	if err := dropPrivileges(""); err != nil {
		t.Fatalf("dropPrivileges(\"\"): %v", err)
	}
}

func TestDropPrivileges_UnknownUserErrors(t *testing.T) {
	if err := dropPrivileges("no-such-user-pixelserv-test"); err == nil {
		t.Fatal("expected an error for an unknown user")
	}
}
