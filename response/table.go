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

// Package response holds the canned byte blobs this server ever sends and
// the minimal status-line/header wrapping around them, per spec.md §6
// "Wire protocol".
package response

import "github.com/nabbar/pixelserv-tls/classify"

// pixelGIF is the canonical 43-byte 1x1 transparent GIF used by every
// ad-blocking pixel server.
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00,
	0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21,
	0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00,
	0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44,
	0x01, 0x00, 0x3b,
}

// pixelPNG is a minimal 1x1 transparent PNG.
var pixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0b, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x64, 0x60, 0x00, 0x00,
	0x00, 0x06, 0x00, 0x02, 0x30, 0x81, 0xd0, 0x2f,
	0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44,
	0xae, 0x42, 0x60, 0x82,
}

// pixelJPG is a minimal baseline JPEG, 1x1 black pixel.
var pixelJPG = []byte{
	0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 0x4a, 0x46,
	0x49, 0x46, 0x00, 0x01, 0x01, 0x00, 0x00, 0x01,
	0x00, 0x01, 0x00, 0x00, 0xff, 0xdb, 0x00, 0x43,
	0x00, 0x03, 0x02, 0x02, 0x02, 0x02, 0x02, 0x03,
	0x02, 0x02, 0x02, 0x03, 0x03, 0x03, 0x03, 0x04,
	0x06, 0x04, 0x04, 0x04, 0x04, 0x04, 0x08, 0x06,
	0x06, 0x05, 0x06, 0x09, 0x08, 0x0a, 0x0a, 0x09,
	0x08, 0x09, 0x09, 0x0a, 0x0c, 0x0f, 0x0c, 0x0a,
	0x0b, 0x0e, 0x0b, 0x09, 0x09, 0x0d, 0x11, 0x0d,
	0x0e, 0x0f, 0x10, 0x10, 0x11, 0x10, 0x0a, 0x0c,
	0x12, 0x13, 0x12, 0x10, 0x13, 0x0f, 0x10, 0x10,
	0x10, 0xff, 0xc9, 0x00, 0x0b, 0x08, 0x00, 0x01,
	0x00, 0x01, 0x01, 0x01, 0x11, 0x00, 0xff, 0xcc,
	0x00, 0x06, 0x00, 0x10, 0x10, 0x05, 0xff, 0xda,
	0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3f, 0x00,
	0xd2, 0xcf, 0x20, 0xff, 0xd9,
}

// pixelICO is a minimal single-frame 16x16 ICO header-plus-bitmap stub.
var pixelICO = []byte{
	0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x10, 0x10,
	0x00, 0x00, 0x01, 0x00, 0x20, 0x00, 0x68, 0x04,
	0x00, 0x00, 0x16, 0x00, 0x00, 0x00,
}

// pixelSWF is a minimal uncompressed SWF header stub — enough to be
// recognized as an SWF container by a client that merely checks magic.
var pixelSWF = []byte{
	'F', 'W', 'S', 0x03, 0x08, 0x00, 0x00, 0x00,
	0x78, 0x00, 0x05, 0x5f, 0x00, 0x00, 0x00, 0x00,
}

const pixelTXT = "\n"

// Entry is the canned content for one classification.
type Entry struct {
	ContentType string
	Body        []byte
	CacheMaxAge int
}

var table = map[classify.Class]Entry{
	classify.SendGIF: {"image/gif", pixelGIF, 86400},
	classify.SendPNG: {"image/png", pixelPNG, 86400},
	classify.SendJPG: {"image/jpeg", pixelJPG, 86400},
	classify.SendICO: {"image/x-icon", pixelICO, 86400},
	classify.SendSWF: {"application/x-shockwave-flash", pixelSWF, 86400},
	classify.SendTXT: {"text/plain; charset=utf-8", []byte(pixelTXT), 0},
}

// Lookup returns the canned entry for a class and whether one exists.
func Lookup(c classify.Class) (Entry, bool) {
	e, ok := table[c]
	return e, ok
}
