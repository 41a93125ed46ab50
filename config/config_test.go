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
	"strconv"
	"testing"
)

func TestResolvePorts_NoFlagsGiven(t *testing.T) {
	http, tls := ResolvePorts(nil, nil)
	if len(http) != 2 || http[0] != DefaultHTTPPort || http[1] != DefaultTLSPort {
		t.Fatalf("got http=%v, want [%d %d]", http, DefaultHTTPPort, DefaultTLSPort)
	}
	if len(tls) != 1 || tls[0] != DefaultTLSPort {
		t.Fatalf("got tls=%v, want [%d]", tls, DefaultTLSPort)
	}
}

func TestResolvePorts_OnlyTLSGiven(t *testing.T) {
	http, tls := ResolvePorts(nil, []int{8443})
	if len(http) != 1 || http[0] != DefaultHTTPPort {
		t.Fatalf("got http=%v, want default HTTP port added", http)
	}
	if len(tls) != 1 || tls[0] != 8443 {
		t.Fatalf("got tls=%v, want [8443] unchanged", tls)
	}
}

func TestResolvePorts_OnlyHTTPGiven(t *testing.T) {
	http, tls := ResolvePorts([]int{8080}, nil)
	if len(tls) != 1 || tls[0] != DefaultTLSPort {
		t.Fatalf("got tls=%v, want default TLS port added", tls)
	}
	if len(http) != 2 || http[0] != 8080 || http[1] != DefaultTLSPort {
		t.Fatalf("got http=%v, want [8080 %d]", http, DefaultTLSPort)
	}
}

func TestResolvePorts_EqualCountsAddsDefaultHTTP(t *testing.T) {
	http, tls := ResolvePorts([]int{8080}, []int{8443})
	if len(http) != 2 || http[0] != 8080 || http[1] != DefaultHTTPPort {
		t.Fatalf("got http=%v, want [8080 %d]", http, DefaultHTTPPort)
	}
	if len(tls) != 1 || tls[0] != 8443 {
		t.Fatalf("got tls=%v, want unchanged [8443]", tls)
	}
}

func TestResolvePorts_UnequalCountsUntouched(t *testing.T) {
	http, tls := ResolvePorts([]int{8080, 8081}, []int{8443})
	if len(http) != 2 {
		t.Fatalf("got http=%v, want unchanged length 2", http)
	}
	if len(tls) != 1 {
		t.Fatalf("got tls=%v, want unchanged length 1", tls)
	}
}

func TestPortList_RejectsOverflow(t *testing.T) {
	called := 0
	p := newPortList(2, func() error {
		called++
		return ErrTooManyPorts.Error()
	})

	if err := p.Set("80"); err != nil {
		t.Fatalf("first Set: %v", err)
	}
	if err := p.Set("8080"); err != nil {
		t.Fatalf("second Set: %v", err)
	}
	if err := p.Set("9090"); err == nil {
		t.Fatal("third Set should have overflowed")
	}
	if called != 1 {
		t.Fatalf("overflow callback called %d times, want 1", called)
	}
}

func TestPortList_RejectsInvalid(t *testing.T) {
	p := newPortList(MaxPorts, func() error { return nil })
	for _, bad := range []string{"not-a-port", "0", "70000", "-1"} {
		if err := p.Set(bad); err == nil {
			t.Fatalf("Set(%q) should have failed", bad)
		}
	}
}

func TestFlagSet_ParsesCoreFlags(t *testing.T) {
	fs := NewFlagSet("pixelserv-tls")
	opt, err := fs.Parse([]string{
		"-2", "-R", "-l", "5",
		"-p", "8080", "-k", "8443",
		"-s", "/stats.html", "-t", "/stats.txt",
		"-T", "128", "-w", "250ms",
		"0.0.0.0",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !opt.Disable204 || !opt.DisableRedirect {
		t.Fatal("expected -2 and -R to be reflected in Options")
	}
	if opt.LogLevel.String() != "debug" {
		t.Fatalf("got log level %v, want debug", opt.LogLevel)
	}
	if opt.MaxWorkers != 128 {
		t.Fatalf("got max workers %d, want 128", opt.MaxWorkers)
	}
	if opt.WarnThreshold.String() != "250ms" {
		t.Fatalf("got warn threshold %v, want 250ms", opt.WarnThreshold)
	}
	if opt.BindAddress != "0.0.0.0" {
		t.Fatalf("got bind address %q, want 0.0.0.0", opt.BindAddress)
	}
	if len(opt.HTTPPorts) != 2 || opt.HTTPPorts[0] != 8080 || opt.HTTPPorts[1] != DefaultHTTPPort {
		t.Fatalf("got http ports %v, want [8080 %d]", opt.HTTPPorts, DefaultHTTPPort)
	}
	if len(opt.TLSPorts) != 1 || opt.TLSPorts[0] != 8443 {
		t.Fatalf("got tls ports %v, want [8443]", opt.TLSPorts)
	}
}

func TestFlagSet_RepeatablePortFlags(t *testing.T) {
	fs := NewFlagSet("pixelserv-tls")
	opt, err := fs.Parse([]string{"-p", "8080", "-p", "8081", "-k", "8443"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []int{8080, 8081}
	if len(opt.HTTPPorts) != len(want) {
		t.Fatalf("got http ports %v, want %v", opt.HTTPPorts, want)
	}
	for i, v := range want {
		if opt.HTTPPorts[i] != v {
			t.Fatalf("got http ports %v, want %v", opt.HTTPPorts, want)
		}
	}
}

func TestFlagSet_RejectsTooManyPorts(t *testing.T) {
	fs := NewFlagSet("pixelserv-tls")
	args := make([]string, 0, (MaxPorts+1)*2)
	for i := 0; i < MaxPorts+1; i++ {
		args = append(args, "-p", strconv.Itoa(10000+i))
	}
	if _, err := fs.Parse(args); err == nil {
		t.Fatal("expected an error after exceeding MaxPorts")
	}
}
