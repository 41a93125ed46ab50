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
	"fmt"
	"html"
	"strings"

	"github.com/nabbar/pixelserv-tls/classify"
)

// counterLines returns every named counter in a stable order: totals,
// then per-classification counts, then per-SSL-outcome counts, then the
// peak/EMA fields.
func counterLines(s Snapshot) [][2]string {
	lines := [][2]string{
		{"count", fmt.Sprintf("%d", s.Count)},
	}

	for _, c := range classify.AllClasses() {
		lines = append(lines, [2]string{c.String(), fmt.Sprintf("%d", s.ByClass[c])})
	}

	for _, o := range classify.AllSSLOutcomes() {
		lines = append(lines, [2]string{o.String(), fmt.Sprintf("%d", s.BySSL[o])})
	}

	lines = append(lines,
		[2]string{"kcc", fmt.Sprintf("%d", s.Kcc)},
		[2]string{"kmx", fmt.Sprintf("%d", s.Kmx)},
		[2]string{"rmx", fmt.Sprintf("%d", s.Rmx)},
		[2]string{"tmx", fmt.Sprintf("%.6f", s.Tmx)},
		[2]string{"krq", fmt.Sprintf("%d", s.Krq)},
		[2]string{"kvg", fmt.Sprintf("%.6f", s.Kvg)},
		[2]string{"avg", fmt.Sprintf("%.6f", s.Avg)},
		[2]string{"tav", fmt.Sprintf("%.6f", s.Tav)},
	)

	return lines
}

// RenderText produces the SEND_STATSTEXT body: one "name value" pair per
// line, in the order counterLines defines.
func RenderText(s Snapshot) []byte {
	var sb strings.Builder
	for _, kv := range counterLines(s) {
		fmt.Fprintf(&sb, "%s %s\n", kv[0], kv[1])
	}
	return []byte(sb.String())
}

// RenderHTML produces the SEND_STATS body: the same counters in a minimal
// HTML table.
func RenderHTML(s Snapshot) []byte {
	var sb strings.Builder
	sb.WriteString("<html><head><title>pixelserv-tls stats</title></head><body><table>\n")
	for _, kv := range counterLines(s) {
		fmt.Fprintf(&sb, "<tr><td>%s</td><td>%s</td></tr>\n", html.EscapeString(kv[0]), html.EscapeString(kv[1]))
	}
	sb.WriteString("</table></body></html>\n")
	return []byte(sb.String())
}
