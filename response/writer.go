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

package response

import (
	"bufio"
	"fmt"

	"github.com/nabbar/pixelserv-tls/classify"
	"github.com/nabbar/pixelserv-tls/errs"
)

// ErrNoCannedEntry is returned by CopyBody when the class has no canned
// media blob (e.g. SendStats, whose body is generated, not canned).
const ErrNoCannedEntry errs.CodeError = errs.MinPkgResponse + 1

func init() {
	errs.Register(ErrNoCannedEntry, "no canned response entry for class")
}

// minimalBody is the tiny plain-text body used for classes that have no
// canned media blob of their own (POST/HEAD/OPTIONS acks, bad-request
// replies).
const minimalBody = "ok\n"

// Request is the subset of the parsed request the writer needs in order to
// pick a status line and a keep-alive policy.
type Request struct {
	Class          classify.Class
	RedirectTarget string
	HTTP11         bool
	KeepAlive      bool
	// StatsBody is supplied by the caller for SendStats/SendStatsText: the
	// writer does not import the stats package to avoid a dependency
	// cycle (stats renders text, it does not pick HTTP status lines).
	StatsBody []byte
}

// Write renders and flushes the full response for req onto w, returning the
// number of bytes written on the wire (for the receive/transmit size EMA).
func Write(w *bufio.Writer, req Request) (int, error) {
	status, headers, body := build(req)

	proto := "HTTP/1.0"
	if req.HTTP11 {
		proto = "HTTP/1.1"
	}

	n := 0
	wn, err := fmt.Fprintf(w, "%s %s\r\n", proto, status)
	n += wn
	if err != nil {
		return n, err
	}

	for _, h := range headers {
		wn, err = fmt.Fprintf(w, "%s\r\n", h)
		n += wn
		if err != nil {
			return n, err
		}
	}

	connHeader := "close"
	if req.KeepAlive {
		connHeader = "keep-alive"
	}
	wn, err = fmt.Fprintf(w, "Connection: %s\r\nContent-Length: %d\r\n\r\n", connHeader, len(body))
	n += wn
	if err != nil {
		return n, err
	}

	if len(body) > 0 && req.Class != classify.SendHead {
		wn, err = w.Write(body)
		n += wn
		if err != nil {
			return n, err
		}
	}

	return n, w.Flush()
}

func build(req Request) (status string, headers []string, body []byte) {
	switch req.Class {
	case classify.Send204:
		return "204 No Content", nil, nil

	case classify.SendRedirect:
		return "307 Temporary Redirect", []string{"Location: " + req.RedirectTarget}, nil

	case classify.SendStats:
		return "200 OK", []string{"Content-Type: text/html; charset=utf-8"}, req.StatsBody

	case classify.SendStatsText:
		return "200 OK", []string{"Content-Type: text/plain; charset=utf-8"}, req.StatsBody

	case classify.SendPost, classify.SendHead, classify.SendOptions:
		return "200 OK", []string{"Content-Type: text/plain; charset=utf-8"}, []byte(minimalBody)

	case classify.SendBad, classify.SendBadPath, classify.SendNoURL:
		return "400 Bad Request", []string{"Content-Type: text/plain; charset=utf-8"}, []byte(minimalBody)

	case classify.SendNoExt, classify.SendUnkExt:
		// Extension-less and unrecognized-extension paths are treated as
		// tracker-pixel candidates: fall back to the default pixel.
		e := table[classify.SendGIF]
		return "200 OK", cannedHeaders(e), e.Body

	default:
		if e, ok := table[req.Class]; ok {
			return "200 OK", cannedHeaders(e), e.Body
		}
		return "200 OK", []string{"Content-Type: text/plain; charset=utf-8"}, []byte(minimalBody)
	}
}

func cannedHeaders(e Entry) []string {
	h := []string{"Content-Type: " + e.ContentType}
	if e.CacheMaxAge > 0 {
		h = append(h, fmt.Sprintf("Cache-Control: max-age=%d", e.CacheMaxAge))
	}
	return h
}

// CopyBody is a helper for tests and callers that want the body bytes
// without going through bufio, kept here so response stays the single
// place that knows about the canned table.
func CopyBody(c classify.Class) ([]byte, error) {
	e, ok := Lookup(c)
	if !ok {
		return nil, ErrNoCannedEntry.Error()
	}
	return e.Body, nil
}
