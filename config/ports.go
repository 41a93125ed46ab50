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

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultHTTPPort and DefaultTLSPort are the fallback ports pixelserv-tls
// opens when the corresponding flag is never given.
const (
	DefaultHTTPPort = 80
	DefaultTLSPort  = 443
)

// MaxPorts and MaxTLSPorts cap the repeatable -p/-k flags. Exceeding either
// is a hard parse error (the REDESIGN FLAG call: the original silently let
// an overflowing -k fall through into the -p slot).
const (
	MaxPorts    = 16
	MaxTLSPorts = 16
)

// PortList is a pflag.Value collecting repeated -p/-k occurrences into an
// ordered, capped slice of port numbers.
type PortList struct {
	ports []int
	max   int
	errc  func() error
}

func newPortList(max int, overflow func() error) *PortList {
	return &PortList{max: max, errc: overflow}
}

func (p *PortList) String() string {
	if p == nil || len(p.ports) == 0 {
		return ""
	}
	parts := make([]string, len(p.ports))
	for i, v := range p.ports {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (p *PortList) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return ErrInvalidPort.Error(fmt.Errorf("%q", s))
	}
	if len(p.ports) >= p.max {
		return p.errc()
	}
	p.ports = append(p.ports, n)
	return nil
}

func (p *PortList) Type() string {
	return "port"
}

// Ports returns the accumulated values in the order given on the command line.
func (p *PortList) Ports() []int {
	if p == nil {
		return nil
	}
	out := make([]int, len(p.ports))
	copy(out, p.ports)
	return out
}

// ResolvePorts applies pixelserv.c's default-port fallback policy (lines
// 361-371 of the original): the two arguments are the ports accumulated
// from -p/-k in command-line order; the return values are the final
// listener sets after defaults are layered in.
//
//   - neither -p nor -k given: open DefaultHTTPPort and DefaultTLSPort,
//     with DefaultTLSPort doing double duty as both an HTTP and a TLS port.
//   - only -k given (http empty): also open DefaultHTTPPort as a plain HTTP
//     listener; the -k ports are kept as given.
//   - only -p given (tls empty): also open DefaultTLSPort, listed both as a
//     TLS port and as an HTTP port.
//   - -p and -k both given, in equal counts: also open DefaultHTTPPort as
//     an extra plain HTTP listener.
//   - otherwise (counts differ and both non-empty): use exactly what was given.
func ResolvePorts(httpPorts, tlsPorts []int) (finalHTTP, finalTLS []int) {
	finalHTTP = append([]int(nil), httpPorts...)
	finalTLS = append([]int(nil), tlsPorts...)

	switch {
	case len(finalHTTP) == 0 && len(finalTLS) == 0:
		finalHTTP = []int{DefaultHTTPPort, DefaultTLSPort}
		finalTLS = []int{DefaultTLSPort}
	case len(finalHTTP) == 0:
		finalHTTP = []int{DefaultHTTPPort}
	case len(finalTLS) == 0:
		finalTLS = append(finalTLS, DefaultTLSPort)
		finalHTTP = append(finalHTTP, DefaultTLSPort)
	case len(finalHTTP) == len(finalTLS):
		finalHTTP = append(finalHTTP, DefaultHTTPPort)
	}

	return finalHTTP, finalTLS
}
