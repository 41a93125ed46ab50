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

// Package connhandler implements the per-connection state machine of
// spec.md §4.2: one goroutine per accepted socket (the single worker-model
// decision spec.md §9 asks for), sniffing TLS vs plaintext, parsing
// requests, classifying them, and replying with canned responses under a
// keep-alive loop.
package connhandler

import (
	"bufio"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"time"

	"github.com/nabbar/pixelserv-tls/classify"
	"github.com/nabbar/pixelserv-tls/logging"
	"github.com/nabbar/pixelserv-tls/response"
	"github.com/nabbar/pixelserv-tls/stats"
	"github.com/nabbar/pixelserv-tls/tlscache"
)

// Config carries the run-time knobs a connection worker needs. All fields
// are read-only for the lifetime of one connection.
type Config struct {
	Classify      classify.Options
	TLSCache      *tlscache.Cache // nil on a plaintext-only listener
	SelectTimeout time.Duration
	KeepAliveCeil time.Duration
	StatsSnapshot func() stats.Snapshot
	RecordC       chan<- stats.Record
}

// looksLikeTLS reports whether b can be the first byte of a TLS record
// (ContentType); 0x14-0x17 covers ChangeCipherSpec/Alert/Handshake/Application-Data, matching
// spec.md §4.2's "looks like a TLS record" sniff.
func looksLikeTLS(b byte) bool {
	return b >= 0x14 && b <= 0x17
}

// Handle owns conn until the connection is done, emitting exactly one
// stats.Record per served request plus exactly one ActionDecKcc record at
// teardown, per spec.md §4.1's invariant.
func Handle(conn net.Conn, isTLSPort bool, cfg Config) {
	defer conn.Close()

	br := bufio.NewReader(conn)
	krq := 0
	sslOutcome := classify.SSLNotTLS

	defer func() {
		select {
		case cfg.RecordC <- stats.Record{Status: classify.ActionDecKcc, Krq: krq}:
		default:
			logging.Warnf("connhandler: stats channel full, dropping ActionDecKcc record")
		}
	}()

	rw := io.ReadWriter(conn)

	if isTLSPort {
		if err := conn.SetReadDeadline(time.Now().Add(cfg.SelectTimeout)); err != nil {
			return
		}
		first, err := br.Peek(1)
		if err != nil {
			cfg.emit(classify.FailTimeout, classify.SSLNotTLS, 0, 0, krq)
			return
		}

		if looksLikeTLS(first[0]) {
			tlsConn, outcome, ok := handshake(conn, br, cfg.TLSCache)
			sslOutcome = outcome
			if !ok {
				cfg.emit(classify.FailGeneral, sslOutcome, 0, 0, krq)
				return
			}
			rw = tlsConn
			br = bufio.NewReader(tlsConn)
		}
	}

	deadline := time.Now().Add(cfg.KeepAliveCeil)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(cfg.SelectTimeout)); err != nil {
			return
		}

		start := time.Now()
		req, err := readRequest(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				cfg.emit(classify.FailTimeout, sslOutcome, 0, 0, krq)
				return
			}
			cfg.emit(classify.FailGeneral, sslOutcome, 0, 0, krq)
			return
		}

		result := classify.Classify(cfg.Classify, classify.Fingerprint{
			Method:  req.Method,
			RawURL:  req.RequestTarget,
			HasHost: req.Host != "",
		})

		krq++

		var statsBody []byte
		if result.Class == classify.SendStats && cfg.StatsSnapshot != nil {
			statsBody = statsRenderHTML(cfg.StatsSnapshot())
		} else if result.Class == classify.SendStatsText && cfg.StatsSnapshot != nil {
			statsBody = statsRenderText(cfg.StatsSnapshot())
		}

		keepAlive := req.KeepAlive && time.Now().Before(deadline) && !result.Class.IsAction()

		bw := bufio.NewWriter(rw)
		n, werr := response.Write(bw, response.Request{
			Class:          result.Class,
			RedirectTarget: result.RedirectTarget,
			HTTP11:         req.HTTP11,
			KeepAlive:      keepAlive,
			StatsBody:      statsBody,
		})

		runTime := time.Since(start)
		rxBytes := req.RxBytes + n

		if werr != nil {
			cfg.emit(classify.FailReply, sslOutcome, runTime, rxBytes, krq)
			return
		}

		cfg.emit(result.Class, sslOutcome, runTime, rxBytes, krq)

		if !keepAlive {
			return
		}
	}
}

func (c Config) emit(status classify.Class, ssl classify.SSLOutcome, runTime time.Duration, rxBytes int, krq int) {
	if c.RecordC == nil {
		return
	}
	select {
	case c.RecordC <- stats.Record{Status: status, SSL: ssl, RunTime: runTime, RxBytes: rxBytes, Krq: krq}:
	default:
		logging.Warnf("connhandler: stats channel full, dropping record for %s", status)
	}
}

// peekedConn wraps a net.Conn whose first byte(s) have already been
// consumed into a bufio.Reader by the protocol sniff: reads must come from
// the bufio.Reader first so that peeked byte is not lost, then fall
// through to the raw connection once the buffer is drained.
type peekedConn struct {
	net.Conn
	r *bufio.Reader
}

func (p *peekedConn) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

func handshake(conn net.Conn, br *bufio.Reader, cache *tlscache.Cache) (*tls.Conn, classify.SSLOutcome, bool) {
	outcome := classify.SSLErr
	tlsCfg := &tls.Config{}

	if cache != nil {
		tlsCfg.GetCertificate = func(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
			cert, got := cache.Get(hello.Context(), hello.ServerName)
			outcome = got
			if got == classify.SSLErr {
				return nil, errSNIFailed
			}
			return &cert.Certificates[0], nil
		}
	}

	tlsConn := tls.Server(&peekedConn{Conn: conn, r: br}, tlsCfg)

	if err := tlsConn.Handshake(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, classify.SSLHitCls, false
		}
		if outcome == classify.SSLErr {
			return nil, classify.SSLErr, false
		}
		return nil, outcome, false
	}

	return tlsConn, outcome, true
}

// statsRenderHTML/statsRenderText are indirected through small wrapper
// vars so this package does not need a hard import cycle concern if the
// stats renderer signature changes; both simply forward to stats.Render*.
var (
	statsRenderHTML = stats.RenderHTML
	statsRenderText = stats.RenderText
)
