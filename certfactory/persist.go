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

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
)

// pemPath returns <pem_dir>/<host>.crt, the on-disk cache key spec.md §4.3
// names.
func pemPath(dir, host string) string {
	return filepath.Join(dir, host+".crt")
}

// loadCached reads and parses an existing leaf+key PEM bundle from disk,
// returning ok=false (not an error) if the file is absent or unparseable
// — a cache miss, not a failure, since the caller will just mint a fresh
// one in that case.
func loadCached(dir, host string) (tls.Certificate, bool) {
	path := pemPath(dir, host)

	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, false
	}

	cert, key := splitBundle(data)
	if cert == nil || key == nil {
		return tls.Certificate{}, false
	}

	pair, err := tls.X509KeyPair(cert, key)
	if err != nil {
		return tls.Certificate{}, false
	}

	return pair, true
}

func splitBundle(data []byte) (cert, key []byte) {
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		switch block.Type {
		case "CERTIFICATE":
			cert = append(cert, pem.EncodeToMemory(block)...)
		case "RSA PRIVATE KEY", "EC PRIVATE KEY", "PRIVATE KEY":
			key = append(key, pem.EncodeToMemory(block)...)
		}
	}
	return cert, key
}

// persist writes leaf+key (and the CA chain, if any) to a temp file in
// the same directory, then renames it into place, so a concurrent reader
// never observes a partial bundle — spec.md §4.3 point 3 and the atomic-
// persistence testable property in spec.md §8.
func persist(dir, host string, leaf *x509.Certificate, key interface{}, chain []*x509.Certificate) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return ErrPersistFailed.ErrorParent(err)
	}

	var buf []byte
	buf = append(buf, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: leaf.Raw})...)
	for _, c := range chain {
		buf = append(buf, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: c.Raw})...)
	}

	keyBlock, err := encodeKey(key)
	if err != nil {
		return err
	}
	buf = append(buf, keyBlock...)

	tmp, err := os.CreateTemp(dir, host+".crt.tmp-*")
	if err != nil {
		return ErrPersistFailed.ErrorParent(err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return ErrPersistFailed.ErrorParent(err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return ErrPersistFailed.ErrorParent(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return ErrPersistFailed.ErrorParent(err)
	}

	if err := os.Rename(tmpName, pemPath(dir, host)); err != nil {
		os.Remove(tmpName)
		return ErrPersistFailed.ErrorParent(err)
	}

	return nil
}

func encodeKey(key interface{}) ([]byte, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(k)}), nil
	case *ecdsa.PrivateKey:
		der, err := x509.MarshalECPrivateKey(k)
		if err != nil {
			return nil, ErrPersistFailed.ErrorParent(err)
		}
		return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
	default:
		return nil, ErrPersistFailed.Error()
	}
}
