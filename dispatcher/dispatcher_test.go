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

package dispatcher

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/nabbar/pixelserv-tls/classify"
	"github.com/nabbar/pixelserv-tls/stats"
)

func TestUniquePorts(t *testing.T) {
	got := uniquePorts([]int{80, 443}, []int{443, 8443})
	want := []int{80, 443, 8443}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDispatcher_AdmissionControlRejectsExcessConnections(t *testing.T) {
	reg := stats.New(nil)
	d, err := New(context.Background(), Config{
		BindAddress:   "127.0.0.1",
		HTTPPorts:     []int{0},
		MaxWorkers:    1,
		SelectTimeout: 2 * time.Second,
		KeepAliveCeil: 2 * time.Second,
		Classify:      classify.Options{StatsURL: "/servstats", StatsTextURL: "/servstats.txt"},
		Registry:      reg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	addr := d.Addrs()[0].String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	conn1, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial conn1: %v", err)
	}
	defer conn1.Close()

	// conn1 never sends a request, so its worker stays parked in
	// readRequest and keeps the single MaxWorkers slot occupied.
	time.Sleep(50 * time.Millisecond)

	conn2, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial conn2: %v", err)
	}
	defer conn2.Close()

	buf := make([]byte, 1)
	conn2.SetReadDeadline(time.Now().Add(time.Second))
	_, rerr := conn2.Read(buf)
	if rerr == nil {
		t.Fatal("expected conn2 to be closed immediately by admission control")
	}

	deadline := time.Now().Add(time.Second)
	var snap stats.Snapshot
	for time.Now().Before(deadline) {
		snap = reg.Snapshot()
		if snap.ByClass[classify.FailThrottled] == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if snap.ByClass[classify.FailThrottled] != 1 {
		t.Fatalf("got clt count %d, want 1", snap.ByClass[classify.FailThrottled])
	}

	cancel()
	conn1.Close()
	<-done
}
