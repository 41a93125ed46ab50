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
	"net"
	"strings"
	"testing"
	"time"

	"github.com/nabbar/pixelserv-tls/classify"
	"github.com/nabbar/pixelserv-tls/stats"
)

func defaultConfig(recordC chan stats.Record) Config {
	return Config{
		Classify:      classify.Options{StatsURL: "/servstats", StatsTextURL: "/servstats.txt"},
		SelectTimeout: 2 * time.Second,
		KeepAliveCeil: 2 * time.Second,
		RecordC:       recordC,
	}
}

func TestHandle_SingleRequestClose(t *testing.T) {
	server, client := net.Pipe()
	recordC := make(chan stats.Record, 4)

	done := make(chan struct{})
	go func() {
		Handle(server, false, defaultConfig(recordC))
		close(done)
	}()

	client.Write([]byte("GET /pixel.gif HTTP/1.0\r\n\r\n"))

	br := bufio.NewReader(client)
	status, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("read status line: %v", err)
	}
	if !strings.Contains(status, "200 OK") {
		t.Fatalf("got status line %q, want 200 OK", status)
	}

	client.Close()
	<-done

	rec := <-recordC
	if rec.Status != classify.SendGIF {
		t.Fatalf("got first record status %v, want SendGIF", rec.Status)
	}

	dec := <-recordC
	if dec.Status != classify.ActionDecKcc {
		t.Fatalf("got second record status %v, want ActionDecKcc", dec.Status)
	}
}

func TestHandle_KeepAliveServesTwoRequests(t *testing.T) {
	server, client := net.Pipe()
	recordC := make(chan stats.Record, 4)

	done := make(chan struct{})
	go func() {
		Handle(server, false, defaultConfig(recordC))
		close(done)
	}()

	go func() {
		client.Write([]byte("GET /a.png HTTP/1.1\r\nHost: x\r\n\r\n"))
		br := bufio.NewReader(client)
		br.ReadString('\n') // status line of first response
		client.Write([]byte("GET /b.ico HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"))
		br.ReadString('\n') // status line of second response
		client.Close()
	}()

	<-done

	first := <-recordC
	second := <-recordC
	dec := <-recordC

	if first.Status != classify.SendPNG {
		t.Fatalf("got first %v, want SendPNG", first.Status)
	}
	if second.Status != classify.SendICO {
		t.Fatalf("got second %v, want SendICO", second.Status)
	}
	if dec.Status != classify.ActionDecKcc || dec.Krq != 2 {
		t.Fatalf("got teardown record %+v, want ActionDecKcc with Krq=2", dec)
	}
}

func TestLooksLikeTLS(t *testing.T) {
	if !looksLikeTLS(0x16) {
		t.Fatal("0x16 (Handshake) should look like TLS")
	}
	if looksLikeTLS('G') {
		t.Fatal("'G' (start of GET) should not look like TLS")
	}
}
