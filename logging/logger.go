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

// Package logging wraps logrus with the level scale and runtime re-leveling
// pixelserv-tls needs: the -l flag and the ACTION_LOG_VERB record both
// funnel through SetLevel.
package logging

import (
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var std = logrus.New()
var current atomic.Uint32

func init() {
	std.SetOutput(os.Stderr)
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	SetLevel(Info)
}

// SetLevel re-levels the process-wide logger. Safe to call concurrently;
// this is what stats.Registry.Apply calls when the dispatcher drains an
// ACTION_LOG_VERB record.
func SetLevel(l Level) {
	current.Store(uint32(l))
	std.SetLevel(l.Logrus())
}

// CurrentLevel returns the active level.
func CurrentLevel() Level {
	return Level(current.Load())
}

// L returns the shared *logrus.Logger for call sites that want structured
// fields (e.g. `logging.L().WithField("host", h).Debug(...)`).
func L() *logrus.Logger {
	return std
}

func Debugf(format string, args ...interface{}) { std.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { std.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { std.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { std.Errorf(format, args...) }

// Noticef logs at logrus's InfoLevel, tagged with a severity field —
// logrus has no distinct Notice level, so Notice collapses into Info the
// same way Level.Logrus does.
func Noticef(format string, args ...interface{}) {
	std.WithField("severity", "notice").Infof(format, args...)
}

// Criticalf logs at logrus's FatalLevel severity without calling os.Exit —
// pixelserv-tls reserves actual process exit for the startup-fatal path,
// never for a runtime log call. Using FatalLevel rather than Errorf keeps
// the message visible even when SetLevel(Critical) has raised the
// threshold to its most restrictive setting.
func Criticalf(format string, args ...interface{}) {
	std.WithField("severity", "critical").Logf(logrus.FatalLevel, format, args...)
}
