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

package classify

import (
	"net/url"
	"path"
	"strings"
)

// Fingerprint is everything the classifier needs to see from a request,
// per spec.md §3 "Request fingerprint".
type Fingerprint struct {
	Method  string
	RawURL  string
	HasHost bool
}

// Extension returns the lowercase filename extension of the request path,
// without the leading dot, or "" if the path has none.
func (f Fingerprint) Extension() string {
	u, err := url.Parse(f.RawURL)
	if err != nil {
		return ""
	}

	ext := path.Ext(u.Path)
	if ext == "" || ext == "." {
		return ""
	}

	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// PathState distinguishes "no URL at all" from "URL present but malformed",
// per spec.md §4.2 rule 5 (SEND_NO_URL vs SEND_BAD_PATH).
type PathState int

const (
	PathOK PathState = iota
	PathMissing
	PathMalformed
)

// ParsedPath returns the request path and its PathState.
func (f Fingerprint) ParsedPath() (string, PathState) {
	if f.RawURL == "" {
		return "", PathMissing
	}

	u, err := url.Parse(f.RawURL)
	if err != nil {
		return "", PathMalformed
	}

	if u.Path == "" {
		return "", PathMissing
	}

	return u.Path, PathOK
}
