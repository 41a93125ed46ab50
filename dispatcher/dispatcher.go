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

// Package dispatcher owns the listener set, the admission-control
// semaphore, and the stats-draining loop: the pieces of spec.md §5 that
// sit above one connection's lifetime.
package dispatcher

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nabbar/pixelserv-tls/classify"
	"github.com/nabbar/pixelserv-tls/connhandler"
	"github.com/nabbar/pixelserv-tls/logging"
	"github.com/nabbar/pixelserv-tls/stats"
	"github.com/nabbar/pixelserv-tls/tlscache"
)

// Config is everything the dispatcher needs to bind its listeners and
// build the per-connection Config it hands to connhandler.Handle.
type Config struct {
	BindAddress   string
	Iface         string
	HTTPPorts     []int
	TLSPorts      []int
	MaxWorkers    int64
	SelectTimeout time.Duration
	KeepAliveCeil time.Duration
	Classify      classify.Options
	TLSCache      *tlscache.Cache
	Registry      *stats.Registry
}

// Dispatcher binds every configured port, fans accepted connections out to
// connhandler workers under a weighted semaphore, and drains their stats
// records into a single Registry.
type Dispatcher struct {
	cfg       Config
	sem       *semaphore.Weighted
	recordC   chan stats.Record
	listeners []net.Listener
	wg        sync.WaitGroup
}

// New binds every port in cfg.HTTPPorts and cfg.TLSPorts, tagging TLS
// ports so their workers run the handshake path. Binding happens eagerly
// so a startup failure (spec.md §6's non-zero exit code) is observed
// before Run starts accepting.
func New(ctx context.Context, cfg Config) (*Dispatcher, error) {
	if len(cfg.HTTPPorts)+len(cfg.TLSPorts) == 0 {
		return nil, ErrNoPorts.Error()
	}

	d := &Dispatcher{
		cfg:     cfg,
		sem:     semaphore.NewWeighted(cfg.MaxWorkers),
		recordC: make(chan stats.Record, 256),
	}

	lc := &net.ListenConfig{Control: tuneSocket}

	tlsSet := make(map[int]bool, len(cfg.TLSPorts))
	for _, p := range cfg.TLSPorts {
		tlsSet[p] = true
	}

	bind := func(port int) (net.Listener, error) {
		addr := net.JoinHostPort(cfg.BindAddress, strconv.Itoa(port))
		return lc.Listen(ctx, "tcp", addr)
	}

	allPorts := uniquePorts(cfg.HTTPPorts, cfg.TLSPorts)
	for _, port := range allPorts {
		ln, err := bind(port)
		if err != nil {
			d.closeAll()
			return nil, ErrListenFailed.Error(err)
		}
		d.listeners = append(d.listeners, listenerWithFlag{Listener: ln, isTLS: tlsSet[port]})
	}

	return d, nil
}

type listenerWithFlag struct {
	net.Listener
	isTLS bool
}

// Run accepts on every bound listener until ctx is canceled or a SIGTERM
// arrives, draining per-connection stats into cfg.Registry the whole
// while. SIGUSR1 logs a stats snapshot without stopping the server,
// matching the original's dual-signal control surface (spec.md §5).
func (d *Dispatcher) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	term, dump := notifyControlSignals()

	var drainWg sync.WaitGroup
	drainWg.Add(1)
	go func() {
		defer drainWg.Done()
		for rec := range d.recordC {
			d.cfg.Registry.Apply(rec)
		}
	}()

	for _, ln := range d.listeners {
		d.wg.Add(1)
		go d.acceptLoop(ctx, ln.(listenerWithFlag))
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-dump:
				snap := d.cfg.Registry.Snapshot()
				logging.Infof("stats snapshot: %d requests served, %d in flight", snap.Count, snap.Kcc)
			}
		}
	}()

	select {
	case <-term:
		logging.Noticef("received shutdown signal, closing listeners")
	case <-ctx.Done():
	}

	cancel()
	d.closeAll()
	d.wg.Wait()

	close(d.recordC)
	drainWg.Wait()

	return nil
}

func (d *Dispatcher) acceptLoop(ctx context.Context, ln listenerWithFlag) {
	defer d.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				logging.Warnf("accept error on listener: %v", err)
				return
			}
		}

		if !d.sem.TryAcquire(1) {
			select {
			case d.recordC <- stats.Record{Status: classify.FailThrottled}:
			default:
				logging.Warnf("dispatcher: stats channel full, dropping clt record")
			}
			conn.Close()
			continue
		}

		d.cfg.Registry.IncKcc()
		d.wg.Add(1)

		go func(c net.Conn, isTLS bool) {
			defer d.wg.Done()
			defer d.sem.Release(1)
			connhandler.Handle(c, isTLS, connhandler.Config{
				Classify:      d.cfg.Classify,
				TLSCache:      d.cfg.TLSCache,
				SelectTimeout: d.cfg.SelectTimeout,
				KeepAliveCeil: d.cfg.KeepAliveCeil,
				StatsSnapshot: d.cfg.Registry.Snapshot,
				RecordC:       d.recordC,
			})
		}(conn, ln.isTLS)
	}
}

// Addrs returns the bound address of every listener, in bind order. Useful
// for logging the effective ports when 0 (OS-assigned) was requested.
func (d *Dispatcher) Addrs() []net.Addr {
	out := make([]net.Addr, len(d.listeners))
	for i, ln := range d.listeners {
		out[i] = ln.Addr()
	}
	return out
}

func (d *Dispatcher) closeAll() {
	for _, ln := range d.listeners {
		_ = ln.Close()
	}
}

func uniquePorts(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, p := range a {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range b {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

