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

package config

import (
	"time"

	"github.com/nabbar/pixelserv-tls/logging"
)

// defaults mirror the original's compiled-in constants (spec.md §6).
const (
	DefaultSelectTimeout = 29 * time.Second
	DefaultKeepAlive     = 300 * time.Second
	DefaultMaxWorkers    = 4096
	DefaultWarnThreshold = 500 * time.Millisecond
	DefaultStatsURL      = "/servstats"
	DefaultStatsTextURL  = "/servstats.txt"
	DefaultPEMDir        = "/etc/pixelserv"
	DefaultUser          = "nobody"
)

// Options is the fully resolved configuration the rest of the module
// builds its components from: one pflag/viper parse produces exactly one
// of these, after ResolvePorts has been applied.
type Options struct {
	BindAddress     string
	Disable204      bool
	Foreground      bool
	DisableRedirect bool
	LogLevel        logging.Level
	Iface           string
	SelectTimeout   time.Duration
	KeepAliveCeil   time.Duration
	HTTPPorts       []int
	TLSPorts        []int
	StatsURL        string
	StatsTextURL    string
	MaxWorkers      int
	User            string
	WarnThreshold   time.Duration
	PEMDir          string
	CACertPath      string
	CAKeyPath       string
}

// Default returns the option set the binary would run with if no flags,
// config file, or environment variables were ever consulted.
func Default() Options {
	return Options{
		BindAddress:   "0.0.0.0",
		LogLevel:      logging.Err,
		SelectTimeout: DefaultSelectTimeout,
		KeepAliveCeil: DefaultKeepAlive,
		StatsURL:      DefaultStatsURL,
		StatsTextURL:  DefaultStatsTextURL,
		MaxWorkers:    DefaultMaxWorkers,
		User:          DefaultUser,
		WarnThreshold: DefaultWarnThreshold,
		PEMDir:        DefaultPEMDir,
	}
}
