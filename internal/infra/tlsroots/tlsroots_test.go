package tlsroots

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/filedrop/internal/telemetry/logger"
)

// writeSelfSigned writes a self-signed pair for commonName and returns the
// PEM-encoded certificate.
func writeSelfSigned(t *testing.T, certFile, keyFile, commonName string) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{commonName},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	require.NoError(t, os.WriteFile(certFile, certPEM, 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	return certPEM
}

func quiet(t *testing.T) logger.Logger {
	t.Helper()
	l, err := logger.New(logger.Config{Output: io.Discard})
	require.NoError(t, err)
	return l
}

func leafCN(t *testing.T, c *tls.Certificate) string {
	t.Helper()
	leaf, err := x509.ParseCertificate(c.Certificate[0])
	require.NoError(t, err)
	return leaf.Subject.CommonName
}

func TestAppendPEM(t *testing.T) {
	dir := t.TempDir()
	pemA := writeSelfSigned(t, filepath.Join(dir, "a.crt"), filepath.Join(dir, "a.key"), "a.local")
	pemB := writeSelfSigned(t, filepath.Join(dir, "b.crt"), filepath.Join(dir, "b.key"), "b.local")

	n, err := AppendPEM(x509.NewCertPool(), append(pemA, pemB...))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = AppendPEM(x509.NewCertPool(), []byte("not pem"))
	assert.ErrorIs(t, err, ErrNoCertsFound)

	bad := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte("garbage")})
	_, err = AppendPEM(x509.NewCertPool(), bad)
	assert.Error(t, err)
}

func TestClientConfig(t *testing.T) {
	dir := t.TempDir()
	caFile := filepath.Join(dir, "ca.crt")
	writeSelfSigned(t, caFile, filepath.Join(dir, "ca.key"), "ca.local")

	cfg, err := ClientConfig(caFile, false)
	require.NoError(t, err)
	assert.NotNil(t, cfg.RootCAs)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)

	cfg, err = ClientConfig("", true)
	require.NoError(t, err)
	assert.True(t, cfg.InsecureSkipVerify)

	_, err = ClientConfig(filepath.Join(dir, "missing.crt"), false)
	assert.Error(t, err)
}

func TestLoadKeyPair(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key")
	writeSelfSigned(t, certFile, keyFile, "first.local")

	kp, err := LoadKeyPair(certFile, keyFile, WithLogger(quiet(t)))
	require.NoError(t, err)

	cert, err := kp.ServerConfig().GetCertificate(nil)
	require.NoError(t, err)
	assert.Equal(t, "first.local", leafCN(t, cert))

	_, err = LoadKeyPair(filepath.Join(dir, "none.crt"), keyFile)
	assert.Error(t, err)
}

func TestKeyPair_ReloadKeepsOldOnFailure(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key")
	writeSelfSigned(t, certFile, keyFile, "first.local")

	kp, err := LoadKeyPair(certFile, keyFile, WithLogger(quiet(t)))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(certFile, []byte("broken"), 0o600))
	assert.Error(t, kp.Reload())

	cert, _ := kp.GetCertificate(nil)
	assert.Equal(t, "first.local", leafCN(t, cert))
}

func TestKeyPair_WatchPicksUpRenewal(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key")
	writeSelfSigned(t, certFile, keyFile, "first.local")

	kp, err := LoadKeyPair(certFile, keyFile, WithLogger(quiet(t)), WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, kp.Watch())
	t.Cleanup(func() { _ = kp.Stop() })

	writeSelfSigned(t, certFile, keyFile, "second.local")

	assert.Eventually(t, func() bool {
		cert, _ := kp.GetCertificate(nil)
		return leafCN(t, cert) == "second.local"
	}, 3*time.Second, 50*time.Millisecond)
}

func TestKeyPair_StopWithoutWatch(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key")
	writeSelfSigned(t, certFile, keyFile, "x.local")

	kp, err := LoadKeyPair(certFile, keyFile, WithLogger(quiet(t)))
	require.NoError(t, err)
	assert.NoError(t, kp.Stop())
	assert.NoError(t, kp.Stop())
}
