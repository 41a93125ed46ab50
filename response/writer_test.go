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
	"bytes"
	"strings"
	"testing"

	"github.com/nabbar/pixelserv-tls/classify"
)

func render(t *testing.T, req Request) string {
	t.Helper()
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if _, err := Write(w, req); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.String()
}

func TestWrite_GIF(t *testing.T) {
	out := render(t, Request{Class: classify.SendGIF, HTTP11: false})
	if !strings.HasPrefix(out, "HTTP/1.0 200 OK\r\n") {
		t.Fatalf("bad status line: %q", out)
	}
	if !strings.Contains(out, "Content-Type: image/gif\r\n") {
		t.Fatalf("missing content-type: %q", out)
	}
	if !bytes.Contains([]byte(out), pixelGIF) {
		t.Fatalf("body does not contain canned GIF bytes")
	}
	if !strings.Contains(out, "Content-Length: 43\r\n") {
		t.Fatalf("wrong content-length: %q", out)
	}
}

func TestWrite_204(t *testing.T) {
	out := render(t, Request{Class: classify.Send204, HTTP11: true})
	if !strings.HasPrefix(out, "HTTP/1.1 204 No Content\r\n") {
		t.Fatalf("bad status line: %q", out)
	}
	if !strings.Contains(out, "Content-Length: 0\r\n") {
		t.Fatalf("expected zero content-length: %q", out)
	}
}

func TestWrite_Redirect(t *testing.T) {
	out := render(t, Request{Class: classify.SendRedirect, RedirectTarget: "http://example.test/x", HTTP11: true})
	if !strings.Contains(out, "307 Temporary Redirect") {
		t.Fatalf("bad status: %q", out)
	}
	if !strings.Contains(out, "Location: http://example.test/x\r\n") {
		t.Fatalf("missing Location header: %q", out)
	}
}

func TestWrite_KeepAliveHeader(t *testing.T) {
	out := render(t, Request{Class: classify.SendGIF, KeepAlive: true})
	if !strings.Contains(out, "Connection: keep-alive\r\n") {
		t.Fatalf("expected keep-alive: %q", out)
	}

	out = render(t, Request{Class: classify.SendGIF, KeepAlive: false})
	if !strings.Contains(out, "Connection: close\r\n") {
		t.Fatalf("expected close: %q", out)
	}
}

func TestWrite_HeadOmitsBody(t *testing.T) {
	out := render(t, Request{Class: classify.SendHead})
	idx := strings.Index(out, "\r\n\r\n")
	if idx == -1 || idx+4 != len(out) {
		t.Fatalf("HEAD response should have empty body: %q", out)
	}
}

func TestWrite_NoExtFallsBackToPixel(t *testing.T) {
	out := render(t, Request{Class: classify.SendNoExt})
	if !strings.Contains(out, "image/gif") {
		t.Fatalf("SEND_NO_EXT should fall back to the default pixel: %q", out)
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup(classify.SendStats); ok {
		t.Fatal("SendStats has no canned table entry, body is generated")
	}
	if e, ok := Lookup(classify.SendJPG); !ok || e.ContentType != "image/jpeg" {
		t.Fatalf("got %+v/%v, want image/jpeg entry", e, ok)
	}
}
