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

// Package classify implements the request classifier of spec.md §4.2: from
// a method, URL and extension, pick exactly one Class from the closed set.
package classify

import (
	"net/url"
	"strings"
)

// Options carries the run-time knobs the classifier consults: the two
// configurable stats URLs, and the -2/-R feature toggles.
type Options struct {
	StatsURL        string
	StatsTextURL    string
	Disable204      bool
	DisableRedirect bool
}

// extensionClass maps a recognized lowercase extension to its class. ".js"
// and ".txt" share SendTXT: the closed classification set in spec.md §3 has
// no dedicated "script" tag, and pixelserv-tls's purpose (§1) is explicit
// that the canned script reply is just another small text blob.
var extensionClass = map[string]Class{
	"gif":  SendGIF,
	"png":  SendPNG,
	"jpg":  SendJPG,
	"jpeg": SendJPG,
	"ico":  SendICO,
	"swf":  SendSWF,
	"js":   SendTXT,
	"txt":  SendTXT,
}

// Result is the outcome of classifying one request.
type Result struct {
	Class Class
	// RedirectTarget is set only when Class == SendRedirect: the decoded
	// absolute URL to 307-redirect the client to.
	RedirectTarget string
}

// Classify applies the first-matching-rule chain of spec.md §4.2.
func Classify(opt Options, fp Fingerprint) Result {
	switch strings.ToUpper(fp.Method) {
	case "GET", "":
		// fall through to URL-based classification below
	case "POST":
		return Result{Class: SendPost}
	case "HEAD":
		return Result{Class: SendHead}
	case "OPTIONS":
		return Result{Class: SendOptions}
	default:
		return Result{Class: SendBad}
	}

	p, state := fp.ParsedPath()
	switch state {
	case PathMissing:
		return Result{Class: SendNoURL}
	case PathMalformed:
		return Result{Class: SendBadPath}
	}

	if opt.StatsURL != "" && p == opt.StatsURL {
		return Result{Class: SendStats}
	}

	if opt.StatsTextURL != "" && p == opt.StatsTextURL {
		return Result{Class: SendStatsText}
	}

	if !opt.Disable204 && strings.Contains(p, "generate_204") {
		return Result{Class: Send204}
	}

	ext := fp.Extension()

	if cls, ok := extensionClass[ext]; ok {
		return Result{Class: cls}
	}

	if ext == "" {
		// An extension-less path is the tracker-pixel redirect candidate
		// rule 7 calls out: try the redirect pattern before settling for
		// SEND_NO_EXT.
		if !opt.DisableRedirect {
			if target, ok := decodeRedirectTarget(p); ok {
				return Result{Class: SendRedirect, RedirectTarget: target}
			}
		}
		return Result{Class: SendNoExt}
	}

	return Result{Class: SendUnkExt}
}

// redirectPrefix is the tracker-link path prefix this rewrite recognizes,
// matching the pattern described in spec.md §4.2 rule 9: a URL-encoded
// absolute target URL embedded as the final path segment. Rule 9 only
// applies to the extension-less paths rule 7 calls a redirect candidate —
// a recognized or unrecognized extension (rules 6, 8) wins over a redirect
// match on the same path.
const redirectPrefix = "/redirect/"

// decodeRedirectTarget extracts and percent-decodes the embedded target URL
// from a tracker-link path, e.g. "/redirect/http%3A%2F%2Fexample.test%2Fx".
func decodeRedirectTarget(p string) (string, bool) {
	idx := strings.Index(p, redirectPrefix)
	if idx == -1 {
		return "", false
	}

	encoded := p[idx+len(redirectPrefix):]
	if encoded == "" {
		return "", false
	}

	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		return "", false
	}

	target, err := url.Parse(decoded)
	if err != nil || !target.IsAbs() {
		return "", false
	}

	return decoded, true
}
