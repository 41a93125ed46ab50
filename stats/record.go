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

// Package stats aggregates per-connection Records into the global counter
// table of spec.md §3, and renders the /servstats HTML and plain-text
// views. It also mirrors the per-classification request totals and the
// in-flight/peak worker counts onto Prometheus collectors, registered on
// the Registerer given to New (none when it is nil).
package stats

import (
	"time"

	"github.com/nabbar/pixelserv-tls/classify"
)

// Record is the Go analog of spec.md §3's "pipe result record": fixed
// shape, sent over a channel by a connection worker exactly once per
// keep-alive cycle, plus exactly one ActionDecKcc record at teardown.
type Record struct {
	Status  classify.Class
	SSL     classify.SSLOutcome
	RunTime time.Duration
	RxBytes int
	// Krq carries the keep-alive request count. For a normal response
	// record it is the worker's running count for *this* connection so
	// far; for an ActionDecKcc record it is the final count posted at
	// teardown, feeding the kvg EMA.
	Krq int
	// Verb carries the new log level for ActionLogVerb records only.
	Verb int
}
