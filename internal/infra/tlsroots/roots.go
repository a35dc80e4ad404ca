package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrNoCertsFound is returned when a PEM file contains no certificates.
var ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM data")

// SystemPool returns the system roots, or an empty pool where the platform
// has none.
func SystemPool() *x509.CertPool {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		return x509.NewCertPool()
	}
	return pool
}

// AppendPEM adds every CERTIFICATE block in data to pool and returns how
// many were added.
func AppendPEM(pool *x509.CertPool, data []byte) (int, error) {
	added := 0
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return added, fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		pool.AddCert(cert)
		added++
	}
	if added == 0 {
		return 0, ErrNoCertsFound
	}
	return added, nil
}

// ClientConfig builds the TLS config the CLI uses to reach a server.
// caFile adds a private CA on top of the system roots, which is how a
// server with a self-signed certificate is trusted.
func ClientConfig(caFile string, insecureSkipVerify bool) (*tls.Config, error) {
	pool := SystemPool()
	if caFile != "" {
		data, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("tlsroots: read ca file %s: %w", caFile, err)
		}
		if _, err := AppendPEM(pool, data); err != nil {
			return nil, fmt.Errorf("tlsroots: ca file %s: %w", caFile, err)
		}
	}

	return &tls.Config{
		RootCAs:            pool,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: insecureSkipVerify, //nolint:gosec // explicit --insecure flag
	}, nil
}
