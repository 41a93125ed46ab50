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
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
)

// caMaterial is everything the factory needs to sign leaves: the CA's own
// certificate and key, plus — when ca.crt is not self-signed — the rest of
// the chain found in the same file, attached to every minted leaf so a
// client can build a full path to a root it trusts.
type caMaterial struct {
	Cert    *x509.Certificate
	Key     crypto.Signer
	Chain   []*x509.Certificate
	IsECDSA bool
}

// loadCA reads ca.crt/ca.key from dir and performs the self-signed check
// pixelserv.c runs at startup: verify the leading certificate's signature
// against its own public key. If that check fails the certificate is an
// intermediate, not a root, and every other certificate block in ca.crt is
// kept as the chain to staple onto minted leaves.
func loadCA(crtPath, keyPath string) (*caMaterial, error) {
	crtPEM, err := os.ReadFile(crtPath)
	if err != nil {
		return nil, ErrCALoad.ErrorParent(err)
	}

	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, ErrCALoad.ErrorParent(err)
	}

	certs, err := parseCertChain(crtPEM)
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, ErrCALoad.Error()
	}

	key, err := parsePrivateKey(keyPEM)
	if err != nil {
		return nil, err
	}

	leading := certs[0]
	if err := matchKeyToCert(leading, key); err != nil {
		return nil, err
	}

	m := &caMaterial{Cert: leading, Key: key}
	if _, isECDSA := key.Public().(*ecdsa.PublicKey); isECDSA {
		m.IsECDSA = true
	}

	if leading.CheckSignatureFrom(leading) != nil {
		// Not self-signed: keep the whole file's chain, the literal Go
		// analog of pixelserv.c's PEM_X509_INFO_read_bio fallback.
		m.Chain = certs[1:]
	}

	return m, nil
}

func parseCertChain(pemBytes []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate

	rest := pemBytes
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		c, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, ErrCALoad.ErrorParent(err)
		}
		certs = append(certs, c)
	}

	return certs, nil
}

func parsePrivateKey(pemBytes []byte) (crypto.Signer, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, ErrCALoad.Error()
	}

	if k, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return k, nil
	}
	if k, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return k, nil
	}
	if k, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		if signer, ok := k.(crypto.Signer); ok {
			return signer, nil
		}
	}

	return nil, ErrCALoad.Error()
}

func matchKeyToCert(cert *x509.Certificate, key crypto.Signer) error {
	switch pub := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		priv, ok := key.(*rsa.PrivateKey)
		if !ok || priv.PublicKey.N.Cmp(pub.N) != 0 {
			return ErrCAKeyMismatch.Error()
		}
	case *ecdsa.PublicKey:
		priv, ok := key.(*ecdsa.PrivateKey)
		if !ok || priv.PublicKey.X.Cmp(pub.X) != 0 || priv.PublicKey.Y.Cmp(pub.Y) != 0 {
			return ErrCAKeyMismatch.Error()
		}
	default:
		return ErrCAKeyMismatch.Error()
	}
	return nil
}
