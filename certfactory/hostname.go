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

package certfactory

import "strings"

// maxHostnameLen mirrors the 255-octet DNS name ceiling spec.md §4.3 asks
// the factory to enforce.
const maxHostnameLen = 255

// normalizeHostname lowercases and validates a requested SNI hostname. It
// rejects empty input, embedded NULs, anything over maxHostnameLen, and
// any label that is empty (leading/trailing/double dots).
func normalizeHostname(host string) (string, bool) {
	if host == "" || len(host) > maxHostnameLen {
		return "", false
	}

	if strings.ContainsRune(host, 0) {
		return "", false
	}

	host = strings.ToLower(host)
	host = strings.TrimSuffix(host, ".")

	labels := strings.Split(host, ".")
	if len(labels) == 0 {
		return "", false
	}

	for _, l := range labels {
		if l == "" {
			return "", false
		}
		for _, r := range l {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			if !ok {
				return "", false
			}
		}
	}

	return host, true
}

// wildcardTail returns "*.<parent>" for a hostname with more than one
// label, and false if the hostname has no parent domain to wildcard (a
// bare single-label host never gets a wildcard SAN).
func wildcardTail(host string) (string, bool) {
	idx := strings.Index(host, ".")
	if idx < 0 {
		return "", false
	}
	return "*" + host[idx:], true
}
