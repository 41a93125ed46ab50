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
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/pixelserv-tls/classify"
	"github.com/nabbar/pixelserv-tls/logging"
)

// Registry is the single counter table the dispatcher drains pipe records
// into. Apply is called from the one goroutine that drains the Record
// channel; IncKcc is called from the accept loops. Both take the write lock,
// and Snapshot (called concurrently by the SEND_STATS/SEND_STATSTEXT
// handlers) takes the read lock.
type Registry struct {
	mu sync.RWMutex

	count      int64
	byClass    map[classify.Class]int64
	bySSL      map[classify.SSLOutcome]int64
	kcc        int64
	kmx        int64
	rmx        int64
	tmxSeconds float64
	krqMax     int64
	avg        float64 // EMA of run_time in seconds
	tav        float64 // EMA of received bytes
	rxSamples  int64   // sample count backing tav, excluding RxBytes<=0 records
	kvg        float64 // EMA of keep-alive request count
	kvgSamples int64   // sample count backing kvg (ActionDecKcc records)

	promTotal   *prometheus.CounterVec
	promKcc     prometheus.Gauge
	promPeakKcc prometheus.Gauge
}

// New builds an empty Registry and, if reg is non-nil, registers its
// Prometheus collectors on it.
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		byClass: make(map[classify.Class]int64, len(classify.AllClasses())),
		bySSL:   make(map[classify.SSLOutcome]int64, len(classify.AllSSLOutcomes())),
		promTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pixelserv",
			Name:      "requests_total",
			Help:      "Total requests served, labeled by classification.",
		}, []string{"status"}),
		promKcc: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pixelserv",
			Name:      "workers_in_flight",
			Help:      "Current number of in-flight connection workers (kcc).",
		}),
		promPeakKcc: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pixelserv",
			Name:      "workers_peak",
			Help:      "Peak number of concurrent connection workers observed (kmx).",
		}),
	}

	if reg != nil {
		reg.MustRegister(r.promTotal, r.promKcc, r.promPeakKcc)
	}

	return r
}

// IncKcc is called by the dispatcher at accept time, before a worker
// goroutine is spawned.
func (r *Registry) IncKcc() {
	r.mu.Lock()
	r.kcc++
	if r.kcc > r.kmx {
		r.kmx = r.kcc
	}
	r.mu.Unlock()

	r.promKcc.Set(float64(r.kcc))
	r.promPeakKcc.Set(float64(r.kmx))
}

// Apply folds one drained Record into the counter table.
func (r *Registry) Apply(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch rec.Status {
	case classify.ActionLogVerb:
		if l, ok := logging.ParseLevel(rec.Verb); ok {
			logging.SetLevel(l)
		}
		return

	case classify.ActionDecKcc:
		if r.kcc > 0 {
			r.kcc--
		}
		if rec.Krq > r.krqMax {
			r.krqMax = rec.Krq
		}
		r.kvgSamples++
		r.kvg = ema(r.kvg, float64(rec.Krq), r.kvgSamples)
		r.promKcc.Set(float64(r.kcc))
		return
	}

	r.count++
	r.byClass[rec.Status]++
	r.promTotal.WithLabelValues(rec.Status.String()).Inc()

	if rec.SSL != classify.SSLNotTLS {
		r.bySSL[rec.SSL]++
	}

	if rec.RxBytes > int(r.rmx) {
		r.rmx = int64(rec.RxBytes)
	}
	if rec.RxBytes > 0 {
		r.rxSamples++
		r.tav = ema(r.tav, float64(rec.RxBytes), r.rxSamples)
	}

	if rec.Status != classify.FailTimeout {
		secs := rec.RunTime.Seconds()
		if secs > r.tmxSeconds {
			r.tmxSeconds = secs
		}
		r.avg = ema(r.avg, secs, r.count-r.byClass[classify.FailTimeout])
	}
}
