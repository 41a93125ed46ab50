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

package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/nabbar/pixelserv-tls/classify"
)

func TestApply_CountsByClass(t *testing.T) {
	r := New(nil)
	r.Apply(Record{Status: classify.SendGIF, RunTime: 10 * time.Millisecond, RxBytes: 100})
	r.Apply(Record{Status: classify.SendGIF, RunTime: 20 * time.Millisecond, RxBytes: 200})
	r.Apply(Record{Status: classify.SendPNG, RunTime: 5 * time.Millisecond, RxBytes: 50})

	s := r.Snapshot()
	if s.Count != 3 {
		t.Fatalf("got count %d, want 3", s.Count)
	}
	if s.ByClass[classify.SendGIF] != 2 {
		t.Fatalf("got gif count %d, want 2", s.ByClass[classify.SendGIF])
	}
	if s.Rmx != 200 {
		t.Fatalf("got rmx %d, want 200", s.Rmx)
	}
}

func TestApply_TimeoutExcludedFromRunTimeStats(t *testing.T) {
	r := New(nil)
	r.Apply(Record{Status: classify.SendGIF, RunTime: 10 * time.Millisecond, RxBytes: 1})
	before := r.Snapshot().Tav

	r.Apply(Record{Status: classify.FailTimeout, RunTime: time.Hour, RxBytes: 1})
	after := r.Snapshot()

	if after.Tav != before {
		t.Fatalf("FAIL_TIMEOUT run_time leaked into tav EMA: before=%v after=%v", before, after.Tav)
	}
	if after.ByClass[classify.FailTimeout] != 1 {
		t.Fatal("FAIL_TIMEOUT should still increment its own counter")
	}
}

func TestApply_ZeroRxBytesExcludedFromByteEMA(t *testing.T) {
	r := New(nil)
	r.Apply(Record{Status: classify.SendGIF, RxBytes: 100})
	before := r.Snapshot().Avg

	r.Apply(Record{Status: classify.FailGeneral, RxBytes: 0})
	after := r.Snapshot()

	if after.Avg != before {
		t.Fatalf("zero-RxBytes record leaked into avg EMA: before=%v after=%v", before, after.Avg)
	}
}

func TestApply_KccLifecycle(t *testing.T) {
	r := New(nil)
	r.IncKcc()
	r.IncKcc()
	if s := r.Snapshot(); s.Kcc != 2 || s.Kmx != 2 {
		t.Fatalf("got kcc=%d kmx=%d, want 2/2", s.Kcc, s.Kmx)
	}

	r.Apply(Record{Status: classify.ActionDecKcc, Krq: 3})
	s := r.Snapshot()
	if s.Kcc != 1 {
		t.Fatalf("got kcc=%d, want 1", s.Kcc)
	}
	if s.Kmx != 2 {
		t.Fatalf("kmx should retain its peak, got %d", s.Kmx)
	}
	if s.Krq != 3 {
		t.Fatalf("got krq peak=%d, want 3", s.Krq)
	}
}

func TestRenderText_ListsEveryCounter(t *testing.T) {
	r := New(nil)
	r.Apply(Record{Status: classify.SendGIF, RxBytes: 10})
	out := string(RenderText(r.Snapshot()))

	for _, name := range []string{"count", "gif", "tmo", "kcc", "kmx", "rmx", "tmx", "krq", "kvg", "avg", "tav"} {
		if !strings.Contains(out, name+" ") {
			t.Errorf("RenderText missing counter %q:\n%s", name, out)
		}
	}
}

func TestRenderHTML_EscapesAndWraps(t *testing.T) {
	out := string(RenderHTML(Snapshot{ByClass: map[classify.Class]int64{}, BySSL: map[classify.SSLOutcome]int64{}}))
	if !strings.HasPrefix(out, "<html>") {
		t.Fatalf("expected html wrapper, got %q", out)
	}
}

func TestEMA(t *testing.T) {
	v := ema(0, 10, 1)
	if v != 10 {
		t.Fatalf("first sample should set ema exactly, got %v", v)
	}
	v = ema(v, 20, 2)
	if v != 15 {
		t.Fatalf("got %v, want 15", v)
	}
}
