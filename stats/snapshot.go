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

import "github.com/nabbar/pixelserv-tls/classify"

// Snapshot is a read-only, point-in-time copy of the counter table, safe to
// render without holding the Registry's lock. Field names match
// pixelserv.c's own global counter variables (rmx, tmx, kmx, krq, kvg, avg,
// tav) so the /servstats text output lists the same names an operator
// migrating from the original tool already knows.
type Snapshot struct {
	Count   int64
	ByClass map[classify.Class]int64
	BySSL   map[classify.SSLOutcome]int64

	Kcc int64   // current in-flight workers
	Kmx int64   // peak concurrent workers
	Rmx int64   // peak received bytes for a single request
	Tmx float64 // peak run_time in seconds
	Krq int64   // peak keep-alive request count for a single connection
	Kvg float64 // EMA of keep-alive request count
	Avg float64 // EMA of received bytes, matching pixelserv.c's avg
	Tav float64 // EMA of run_time in seconds, matching pixelserv.c's tav
}

// Snapshot copies the current counters out from under the lock.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Snapshot{
		Count:   r.count,
		ByClass: make(map[classify.Class]int64, len(r.byClass)),
		BySSL:   make(map[classify.SSLOutcome]int64, len(r.bySSL)),
		Kcc:     r.kcc,
		Kmx:     r.kmx,
		Rmx:     r.rmx,
		Tmx:     r.tmxSeconds,
		Krq:     r.krqMax,
		Kvg:     r.kvg,
		Avg:     r.tav,
		Tav:     r.avg,
	}
	for k, v := range r.byClass {
		s.ByClass[k] = v
	}
	for k, v := range r.bySSL {
		s.BySSL[k] = v
	}
	return s
}
