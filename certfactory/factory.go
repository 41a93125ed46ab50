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

// Package certfactory owns the CA material and mints per-SNI leaf
// certificates on request, persisting them to the PEM directory so a
// restart starts warm. It is the Go translation of spec.md §4.3's "separate
// execution context reachable only through a request/reply channel": a
// single long-lived goroutine replaces the original named FIFO with an
// in-process channel, tagging each request with a uuid.UUID so replies
// route back to the right caller.
package certfactory

import (
	"context"
	"crypto/tls"

	"github.com/google/uuid"

	"github.com/nabbar/pixelserv-tls/logging"
)

// request is one "mint or fetch" ask sent to the factory goroutine.
type request struct {
	id     uuid.UUID
	host   string
	replyC chan reply
}

// reply carries back either a usable certificate or an error.
type reply struct {
	id   uuid.UUID
	cert tls.Certificate
	err  error
}

// Factory serializes every certificate mint/fetch through a single
// goroutine, matching the one-owner invariant spec.md §5 states for the
// certificate factory.
type Factory struct {
	pemDir  string
	ca      *caMaterial
	reqC    chan request
	closedC chan struct{}
}

// Open loads the CA material from dir and starts the factory goroutine.
// Per spec.md §4.3's failure modes, a missing/unusable CA is fatal at
// startup — the caller should treat a non-nil error as "refuse to run".
func Open(ctx context.Context, pemDir, caCrtPath, caKeyPath string) (*Factory, error) {
	ca, err := loadCA(caCrtPath, caKeyPath)
	if err != nil {
		return nil, err
	}

	f := &Factory{
		pemDir:  pemDir,
		ca:      ca,
		reqC:    make(chan request, 64),
		closedC: make(chan struct{}),
	}

	go f.run(ctx)
	return f, nil
}

func (f *Factory) run(ctx context.Context) {
	defer close(f.closedC)

	for {
		select {
		case <-ctx.Done():
			return
		case r := <-f.reqC:
			cert, err := f.resolve(r.host)
			select {
			case r.replyC <- reply{id: r.id, cert: cert, err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (f *Factory) resolve(host string) (tls.Certificate, error) {
	host, ok := normalizeHostname(host)
	if !ok {
		return tls.Certificate{}, ErrInvalidHostname.Error()
	}

	if cached, ok := loadCached(f.pemDir, host); ok {
		return cached, nil
	}

	leaf, key, err := mintLeaf(f.ca, host)
	if err != nil {
		return tls.Certificate{}, err
	}

	if err := persist(f.pemDir, host, leaf, key, f.ca.Chain); err != nil {
		logging.Errorf("certfactory: failed to persist %s: %v", host, err)
		return tls.Certificate{}, err
	}

	pair, ok := loadCached(f.pemDir, host)
	if !ok {
		return tls.Certificate{}, ErrMintFailed.Error()
	}
	return pair, nil
}

// Fetch asks the factory for a certificate for host, returning the cached
// copy if one already exists on disk or minting and persisting a fresh one
// otherwise. Safe to call concurrently; every call is serialized through
// the single factory goroutine.
func (f *Factory) Fetch(ctx context.Context, host string) (tls.Certificate, error) {
	req := request{id: uuid.New(), host: host, replyC: make(chan reply, 1)}

	select {
	case f.reqC <- req:
	case <-f.closedC:
		return tls.Certificate{}, ErrFactoryClosed.Error()
	case <-ctx.Done():
		return tls.Certificate{}, ctx.Err()
	}

	select {
	case rep := <-req.replyC:
		return rep.cert, rep.err
	case <-f.closedC:
		return tls.Certificate{}, ErrFactoryClosed.Error()
	case <-ctx.Done():
		return tls.Certificate{}, ctx.Err()
	}
}

// Done reports whether the factory goroutine has exited.
func (f *Factory) Done() <-chan struct{} {
	return f.closedC
}
