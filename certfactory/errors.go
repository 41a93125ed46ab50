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

package certfactory

import "github.com/nabbar/pixelserv-tls/errs"

const (
	ErrInvalidHostname errs.CodeError = iota + errs.MinPkgCertFactory
	ErrCALoad
	ErrCAKeyMismatch
	ErrMintFailed
	ErrPersistFailed
	ErrFactoryClosed
)

func init() {
	errs.Register(ErrInvalidHostname, "requested hostname is empty, malformed or too long")
	errs.Register(ErrCALoad, "cannot load CA certificate or key material")
	errs.Register(ErrCAKeyMismatch, "CA private key does not match CA certificate")
	errs.Register(ErrMintFailed, "failed to mint leaf certificate")
	errs.Register(ErrPersistFailed, "failed to persist leaf certificate to the PEM cache")
	errs.Register(ErrFactoryClosed, "certificate factory is shut down")
}
