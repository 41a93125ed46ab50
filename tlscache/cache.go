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

// Package tlscache holds the per-SNI *tls.Config cache of spec.md §4.4: a
// map behind a RWMutex, filled lazily on miss by asking a certfactory.Factory
// for the leaf. Two concurrent misses for the same host are tolerated —
// both ask the minter, the last writer's *tls.Config wins in the map —
// exactly as spec.md §4.4 allows.
package tlscache

import (
	"context"
	"crypto/tls"
	"sync"

	"github.com/nabbar/pixelserv-tls/classify"
)

// Minter is the subset of certfactory.Factory the cache depends on, kept
// as an interface so tests can substitute a fake without spinning up real
// CA material.
type Minter interface {
	Fetch(ctx context.Context, host string) (tls.Certificate, error)
}

// Cache is the SNI-keyed *tls.Config store.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*tls.Config
	minter  Minter
	base    *tls.Config
}

// New builds a Cache that mints through minter. base, if non-nil, is
// cloned per entry to carry shared settings (min version, cipher list)
// alongside the per-host certificate.
func New(minter Minter, base *tls.Config) *Cache {
	if base == nil {
		base = &tls.Config{}
	}
	return &Cache{
		entries: make(map[string]*tls.Config),
		minter:  minter,
		base:    base,
	}
}

// Outcome is returned alongside the *tls.Config so callers can classify
// the SSL outcome (SSL_HIT vs SSL_MISS) without re-deriving cache state.
type Outcome = classify.SSLOutcome

// Get returns the cached *tls.Config for host if present (SSLHit), or
// mints one on demand via the factory (SSLMiss). A factory error is
// reported as SSLErr.
func (c *Cache) Get(ctx context.Context, host string) (*tls.Config, Outcome) {
	c.mu.RLock()
	cfg, ok := c.entries[host]
	c.mu.RUnlock()
	if ok {
		return cfg, classify.SSLHit
	}

	cert, err := c.minter.Fetch(ctx, host)
	if err != nil {
		return nil, classify.SSLErr
	}

	cfg = c.base.Clone()
	cfg.Certificates = []tls.Certificate{cert}
	cfg.ServerName = host

	c.mu.Lock()
	c.entries[host] = cfg
	c.mu.Unlock()

	return cfg, classify.SSLMiss
}

// GetCertificate adapts Get to the tls.Config.GetCertificate hook shape,
// for direct use as the SNI callback on the listener's base *tls.Config.
func (c *Cache) GetCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	host := hello.ServerName
	cfg, outcome := c.Get(hello.Context(), host)
	if outcome == classify.SSLErr {
		return nil, errSNILookupFailed
	}
	return &cfg.Certificates[0], nil
}

// Len reports the number of cached hosts, for tests and diagnostics.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
