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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nabbar/pixelserv-tls/certfactory"
	"github.com/nabbar/pixelserv-tls/classify"
	"github.com/nabbar/pixelserv-tls/config"
	"github.com/nabbar/pixelserv-tls/dispatcher"
	"github.com/nabbar/pixelserv-tls/logging"
	"github.com/nabbar/pixelserv-tls/stats"
	"github.com/nabbar/pixelserv-tls/tlscache"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run wires config -> logging -> certfactory -> tlscache -> dispatcher and
// blocks until the dispatcher returns, matching spec.md §6's exit codes: 0
// for a clean shutdown, non-zero for any startup failure.
func run(args []string) int {
	fs := config.NewFlagSet("pixelserv-tls")
	opt, err := fs.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logging.SetLevel(opt.LogLevel)

	if !opt.Foreground {
		logging.Infof("staying attached to the controlling terminal: daemonizing is left to the process supervisor")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Certificate factory next: a TLS port with no usable CA material is a
	// startup failure (spec.md §4.3), caught before any listener binds.
	var minter tlscache.Minter
	if len(opt.TLSPorts) > 0 {
		factory, ferr := certfactory.Open(ctx, opt.PEMDir, opt.CACertPath, opt.CAKeyPath)
		if ferr != nil {
			logging.Criticalf("failed to open certificate factory: %v", ferr)
			return 1
		}
		defer func() {
			cancel()
			<-factory.Done()
		}()
		minter = factory
	}

	var cache *tlscache.Cache
	if minter != nil {
		cache = tlscache.New(minter, nil)
	}

	registry := stats.New(nil)

	// Bind every listener while still running as whatever user started the
	// process (typically root, for the default 80/443 policy) before
	// dropping to an unprivileged user: binding after the drop would make
	// the documented default configuration fail with EACCES on its very
	// first run.
	d, err := dispatcher.New(ctx, dispatcher.Config{
		BindAddress:   opt.BindAddress,
		Iface:         opt.Iface,
		HTTPPorts:     opt.HTTPPorts,
		TLSPorts:      opt.TLSPorts,
		MaxWorkers:    int64(opt.MaxWorkers),
		SelectTimeout: opt.SelectTimeout,
		KeepAliveCeil: opt.KeepAliveCeil,
		Classify: classify.Options{
			StatsURL:        opt.StatsURL,
			StatsTextURL:    opt.StatsTextURL,
			Disable204:      opt.Disable204,
			DisableRedirect: opt.DisableRedirect,
		},
		TLSCache: cache,
		Registry: registry,
	})
	if err != nil {
		logging.Criticalf("failed to bind listeners: %v", err)
		return 1
	}

	for _, addr := range d.Addrs() {
		logging.Infof("listening on %s", addr)
	}

	if err := dropPrivileges(opt.User); err != nil {
		logging.Criticalf("failed to drop privileges to %q: %v", opt.User, err)
		return 1
	}

	if err := d.Run(ctx); err != nil {
		logging.Criticalf("dispatcher exited with error: %v", err)
		return 1
	}

	return 0
}
