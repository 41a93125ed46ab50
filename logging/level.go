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

package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Level mirrors the "-l 0..5" CLI scale from the original pixelserv-tls:
// 0 critical, 1 error, 2 warning, 3 notice, 4 info, 5 debug.
type Level uint8

const (
	Critical Level = iota
	Err
	Warning
	Notice
	Info
	Debug
)

// String renders the level the way the CLI help text names it.
func (l Level) String() string {
	switch l {
	case Critical:
		return "critical"
	case Err:
		return "error"
	case Warning:
		return "warning"
	case Notice:
		return "notice"
	case Info:
		return "info"
	case Debug:
		return "debug"
	default:
		return "unknown"
	}
}

// Logrus maps our six-level scale onto logrus's, collapsing Notice into
// Info (logrus has no separate Notice level).
func (l Level) Logrus() logrus.Level {
	switch l {
	case Critical:
		return logrus.FatalLevel
	case Err:
		return logrus.ErrorLevel
	case Warning:
		return logrus.WarnLevel
	case Notice, Info:
		return logrus.InfoLevel
	case Debug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel parses the numeric -l argument. An out-of-range value is
// rejected: ok is false and the returned level is Info.
func ParseLevel(n int) (Level, bool) {
	if n < int(Critical) || n > int(Debug) {
		return Info, false
	}
	return Level(n), true
}

// ParseLevelName parses a level by name, case-insensitively.
func ParseLevelName(s string) (Level, bool) {
	switch strings.ToLower(s) {
	case "critical":
		return Critical, true
	case "error":
		return Err, true
	case "warning":
		return Warning, true
	case "notice":
		return Notice, true
	case "info":
		return Info, true
	case "debug":
		return Debug, true
	}
	return Info, false
}
