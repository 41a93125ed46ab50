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

package connhandler

import (
	"bufio"
	"errors"
	"net/textproto"
	"strings"
)

// parsedRequest is the minimal head spec.md §4.2 says classification
// relies on: method, request-target, Host header, and whether the client
// declared keep-alive.
type parsedRequest struct {
	Method        string
	RequestTarget string
	Host          string
	HTTP11        bool
	KeepAlive     bool
	RxBytes       int
}

var errMalformedRequestLine = errors.New("malformed request line")

// readRequest reads one HTTP request head (request line + headers) from r,
// never touching the body beyond what already arrived in the same read —
// spec.md §4.2's "classification relies only on the head".
func readRequest(r *bufio.Reader) (parsedRequest, error) {
	tp := textproto.NewReader(r)

	line, err := tp.ReadLine()
	if err != nil {
		return parsedRequest{}, err
	}

	rxBytes := len(line) + 2
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return parsedRequest{}, errMalformedRequestLine
	}

	method := parts[0]
	target := parts[1]
	proto := parts[2]

	headers, err := tp.ReadMIMEHeader()
	if err != nil && len(headers) == 0 {
		return parsedRequest{}, err
	}
	for k, vs := range headers {
		rxBytes += len(k) + 2
		for _, v := range vs {
			rxBytes += len(v) + 2
		}
	}

	http11 := proto == "HTTP/1.1"
	keepAlive := http11
	if conn := headers.Get("Connection"); conn != "" {
		switch strings.ToLower(strings.TrimSpace(conn)) {
		case "keep-alive":
			keepAlive = true
		case "close":
			keepAlive = false
		}
	}

	return parsedRequest{
		Method:        method,
		RequestTarget: target,
		Host:          headers.Get("Host"),
		HTTP11:        http11,
		KeepAlive:     keepAlive,
		RxBytes:       rxBytes,
	}, nil
}
