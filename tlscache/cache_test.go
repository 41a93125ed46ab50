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

package tlscache

import (
	"context"
	"crypto/tls"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nabbar/pixelserv-tls/classify"
)

type fakeMinter struct {
	calls int64
	fail  bool
}

func (f *fakeMinter) Fetch(ctx context.Context, host string) (tls.Certificate, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.fail {
		return tls.Certificate{}, errors.New("mint failed")
	}
	return tls.Certificate{Certificate: [][]byte{[]byte("leaf-for-" + host)}}, nil
}

func TestCache_MissThenHit(t *testing.T) {
	m := &fakeMinter{}
	c := New(m, nil)

	_, outcome := c.Get(context.Background(), "a.test")
	if outcome != classify.SSLMiss {
		t.Fatalf("first Get: got %v, want SSLMiss", outcome)
	}

	_, outcome = c.Get(context.Background(), "a.test")
	if outcome != classify.SSLHit {
		t.Fatalf("second Get: got %v, want SSLHit", outcome)
	}

	if m.calls != 1 {
		t.Fatalf("minter should be called exactly once, got %d", m.calls)
	}
}

func TestCache_MinterErrorIsSSLErr(t *testing.T) {
	m := &fakeMinter{fail: true}
	c := New(m, nil)

	_, outcome := c.Get(context.Background(), "bad.test")
	if outcome != classify.SSLErr {
		t.Fatalf("got %v, want SSLErr", outcome)
	}
	if c.Len() != 0 {
		t.Fatal("a failed mint must not populate the cache")
	}
}

func TestCache_ConcurrentMissesTolerated(t *testing.T) {
	m := &fakeMinter{}
	c := New(m, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Get(context.Background(), "race.test")
		}()
	}
	wg.Wait()

	if c.Len() != 1 {
		t.Fatalf("got %d entries, want exactly 1 (last writer wins)", c.Len())
	}
}
