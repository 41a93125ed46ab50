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
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nabbar/pixelserv-tls/logging"
)

// FlagSet wraps the pflag.FlagSet together with the two repeatable port
// collectors and the viper instance everything gets bound into, following
// the teacher's RegisterFlag/BindPFlag split (one function builds the
// flags, a second ties them to viper keys) without pulling in cobra: this
// binary has no subcommands, so a bare *pflag.FlagSet plays the same role
// cobra.Command.PersistentFlags() plays for the teacher's components.
type FlagSet struct {
	fs       *pflag.FlagSet
	vpr      *viper.Viper
	httpList *PortList
	tlsList  *PortList
}

// NewFlagSet builds the full -2/-f/-R/-l/-n/-o/-O/-p/-k/-s/-t/-T/-u/-w/-z
// surface of spec.md §6 and binds every flag into a fresh viper instance so
// PIXELSERV_*-prefixed environment variables can supply the same settings
// with the usual viper precedence (flag > env > default). No config file is
// read.
func NewFlagSet(name string) *FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	vpr := viper.New()
	vpr.SetEnvPrefix("PIXELSERV")
	vpr.AutomaticEnv()

	def := Default()

	overflow := func(code error) func() error {
		return func() error { return code }
	}

	ret := &FlagSet{fs: fs, vpr: vpr}
	ret.httpList = newPortList(MaxPorts, overflow(ErrTooManyPorts.Error()))
	ret.tlsList = newPortList(MaxTLSPorts, overflow(ErrTooManyTLSPorts.Error()))

	fs.BoolP("disable-204", "2", false, "disable HTTP 204 replies to generate_204 URLs")
	fs.BoolP("foreground", "f", false, "stay in foreground, don't daemonize")
	fs.BoolP("no-redirect", "R", false, "disable redirect to encoded path in tracker links")
	fs.IntP("log-level", "l", int(def.LogLevel), "log level: 0 critical, 1 error, 2 warning, 3 notice, 4 info, 5 debug")
	fs.StringP("iface", "n", "", "interface name (recorded only: listeners are not restricted to it)")
	fs.DurationP("select-timeout", "o", def.SelectTimeout, "per-read select timeout")
	fs.DurationP("keepalive", "O", def.KeepAliveCeil, "HTTP/1.1 keep-alive ceiling")
	fs.VarP(ret.httpList, "port", "p", "HTTP listener port (repeatable)")
	fs.VarP(ret.tlsList, "tls-port", "k", "HTTPS listener port (repeatable)")
	fs.StringP("stats-url", "s", def.StatsURL, "relative stats HTML URL")
	fs.StringP("stats-text-url", "t", def.StatsTextURL, "relative stats text URL")
	fs.IntP("max-workers", "T", def.MaxWorkers, "max concurrent connection workers")
	fs.StringP("user", "u", def.User, "drop privileges to this user after bind")
	fs.DurationP("warn-threshold", "w", def.WarnThreshold, "slow-connection threshold (recorded only: no warning is logged for slow connections)")
	fs.StringP("pem-dir", "z", def.PEMDir, "directory holding the CA and minted leaf certificates")
	fs.String("ca-cert", "", "path to the CA certificate used to sign minted leaves")
	fs.String("ca-key", "", "path to the CA private key used to sign minted leaves")

	for _, n := range []string{
		"disable-204", "foreground", "no-redirect", "log-level", "iface", "select-timeout",
		"keepalive", "stats-url", "stats-text-url", "max-workers", "user",
		"warn-threshold", "pem-dir", "ca-cert", "ca-key",
	} {
		_ = vpr.BindPFlag(n, fs.Lookup(n))
	}

	return ret
}

// Parse parses args (typically os.Args[1:]) and the optional bind-address
// positional, then resolves the final Options, applying ResolvePorts and
// rejecting a configuration that would leave no listeners at all.
func (f *FlagSet) Parse(args []string) (Options, error) {
	if err := f.fs.Parse(args); err != nil {
		return Options{}, err
	}

	opt := Default()
	if rest := f.fs.Args(); len(rest) > 0 {
		opt.BindAddress = rest[0]
	}

	opt.Disable204 = f.vpr.GetBool("disable-204")
	opt.Foreground = f.vpr.GetBool("foreground")
	opt.DisableRedirect = f.vpr.GetBool("no-redirect")

	lvl, ok := logging.ParseLevel(f.vpr.GetInt("log-level"))
	if !ok {
		return Options{}, fmt.Errorf("log level out of range 0-5")
	}
	opt.LogLevel = lvl

	opt.Iface = f.vpr.GetString("iface")
	opt.SelectTimeout = f.vpr.GetDuration("select-timeout")
	opt.KeepAliveCeil = f.vpr.GetDuration("keepalive")
	opt.StatsURL = f.vpr.GetString("stats-url")
	opt.StatsTextURL = f.vpr.GetString("stats-text-url")
	opt.MaxWorkers = f.vpr.GetInt("max-workers")
	opt.User = f.vpr.GetString("user")
	opt.WarnThreshold = f.vpr.GetDuration("warn-threshold")
	opt.PEMDir = f.vpr.GetString("pem-dir")

	// Per spec.md §6's persistent-state layout, the CA material lives at
	// <pem_dir>/ca.crt and <pem_dir>/ca.key unless overridden.
	opt.CACertPath = f.vpr.GetString("ca-cert")
	if opt.CACertPath == "" {
		opt.CACertPath = filepath.Join(opt.PEMDir, "ca.crt")
	}
	opt.CAKeyPath = f.vpr.GetString("ca-key")
	if opt.CAKeyPath == "" {
		opt.CAKeyPath = filepath.Join(opt.PEMDir, "ca.key")
	}

	opt.HTTPPorts, opt.TLSPorts = ResolvePorts(f.httpList.Ports(), f.tlsList.Ports())
	if len(opt.HTTPPorts)+len(opt.TLSPorts) == 0 {
		return Options{}, ErrNoListeners.Error()
	}

	return opt, nil
}
