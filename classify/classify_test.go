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

import "testing"

func defaultOpts() Options {
	return Options{StatsURL: "/servstats", StatsTextURL: "/servstats.txt"}
}

func TestClassify_Methods(t *testing.T) {
	cases := []struct {
		method string
		want   Class
	}{
		{"POST", SendPost},
		{"HEAD", SendHead},
		{"OPTIONS", SendOptions},
		{"TRACE", SendBad},
		{"get", SendNoExt}, // lowercase GET falls through to URL classification
	}

	for _, c := range cases {
		got := Classify(defaultOpts(), Fingerprint{Method: c.method, RawURL: "/pixel"})
		if got.Class != c.want {
			t.Errorf("method %q: got %v, want %v", c.method, got.Class, c.want)
		}
	}
}

func TestClassify_Extensions(t *testing.T) {
	cases := map[string]Class{
		"/a.gif":  SendGIF,
		"/a.png":  SendPNG,
		"/a.jpg":  SendJPG,
		"/a.jpeg": SendJPG,
		"/a.ico":  SendICO,
		"/a.swf":  SendSWF,
		"/a.js":   SendTXT,
		"/a.txt":  SendTXT,
		"/a.xyz":  SendUnkExt,
		"/a":      SendNoExt,
	}

	for path, want := range cases {
		got := Classify(defaultOpts(), Fingerprint{Method: "GET", RawURL: path})
		if got.Class != want {
			t.Errorf("path %q: got %v, want %v", path, got.Class, want)
		}
	}
}

func TestClassify_NoURL(t *testing.T) {
	got := Classify(defaultOpts(), Fingerprint{Method: "GET", RawURL: ""})
	if got.Class != SendNoURL {
		t.Fatalf("got %v, want SendNoURL", got.Class)
	}
}

func TestClassify_Generate204(t *testing.T) {
	got := Classify(defaultOpts(), Fingerprint{Method: "GET", RawURL: "/generate_204"})
	if got.Class != Send204 {
		t.Fatalf("got %v, want Send204", got.Class)
	}

	opt := defaultOpts()
	opt.Disable204 = true
	got = Classify(opt, Fingerprint{Method: "GET", RawURL: "/generate_204"})
	if got.Class != SendNoExt {
		t.Fatalf("with -2: got %v, want SendNoExt", got.Class)
	}
}

func TestClassify_Stats(t *testing.T) {
	got := Classify(defaultOpts(), Fingerprint{Method: "GET", RawURL: "/servstats"})
	if got.Class != SendStats {
		t.Fatalf("got %v, want SendStats", got.Class)
	}

	got = Classify(defaultOpts(), Fingerprint{Method: "GET", RawURL: "/servstats.txt"})
	if got.Class != SendStatsText {
		t.Fatalf("got %v, want SendStatsText", got.Class)
	}
}

func TestClassify_Redirect(t *testing.T) {
	target := "http://example.test/landing"
	encoded := "/redirect/http%3A%2F%2Fexample.test%2Flanding"

	got := Classify(defaultOpts(), Fingerprint{Method: "GET", RawURL: encoded})
	if got.Class != SendRedirect {
		t.Fatalf("got %v, want SendRedirect", got.Class)
	}
	if got.RedirectTarget != target {
		t.Fatalf("got target %q, want %q", got.RedirectTarget, target)
	}

	opt := defaultOpts()
	opt.DisableRedirect = true
	got = Classify(opt, Fingerprint{Method: "GET", RawURL: encoded})
	if got.Class == SendRedirect {
		t.Fatalf("with -R: redirect should not fire")
	}
}

func TestFingerprint_Extension(t *testing.T) {
	fp := Fingerprint{RawURL: "/path/to/PIXEL.GIF"}
	if got := fp.Extension(); got != "gif" {
		t.Fatalf("got %q, want gif", got)
	}
}
