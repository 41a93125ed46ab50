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
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"time"
)

// validityYears is the default leaf lifetime spec.md §4.3 names (N=10).
const validityYears = 10

// mintLeaf signs a fresh leaf certificate for host, using a key of the
// same algorithm family as the CA's own key (an RSA CA signs RSA leaves,
// an ECDSA CA signs ECDSA leaves) so the TLS handshake's signature
// algorithm negotiation never has to straddle families.
func mintLeaf(ca *caMaterial, host string) (*x509.Certificate, interface{}, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 64))
	if err != nil {
		return nil, nil, ErrMintFailed.ErrorParent(err)
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: host},
		DNSNames:     dnsNames(host),
		NotBefore:    now.Add(-24 * time.Hour),
		NotAfter:     now.AddDate(validityYears, 0, 0),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	var (
		pub  interface{}
		priv interface{}
	)

	if ca.IsECDSA {
		k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, nil, ErrMintFailed.ErrorParent(err)
		}
		pub, priv = &k.PublicKey, k
	} else {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, nil, ErrMintFailed.ErrorParent(err)
		}
		pub, priv = &k.PublicKey, k
	}

	der, err := x509.CreateCertificate(rand.Reader, template, ca.Cert, pub, ca.Key)
	if err != nil {
		return nil, nil, ErrMintFailed.ErrorParent(err)
	}

	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, ErrMintFailed.ErrorParent(err)
	}

	return leaf, priv, nil
}

// dnsNames returns the host itself plus, for any multi-label hostname, a
// wildcard covering its parent domain — matching spec.md §4.3's "plus,
// where applicable, a wildcard *.<host-tail>".
func dnsNames(host string) []string {
	names := []string{host}
	if w, ok := wildcardTail(host); ok {
		names = append(names, w)
	}
	return names
}
