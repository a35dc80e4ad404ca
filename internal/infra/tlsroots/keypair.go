package tlsroots

import (
	"crypto/tls"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/filedrop/internal/telemetry/logger"
)

// KeyPair serves the server certificate and swaps it when the files change,
// so a renewed certificate is picked up without a restart.
type KeyPair struct {
	certFile string
	keyFile  string
	logger   logger.Logger
	debounce time.Duration

	mu   sync.RWMutex
	cert *tls.Certificate

	reloadMu   sync.Mutex
	lastReload time.Time

	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

// KeyPairOption configures a KeyPair.
type KeyPairOption func(*KeyPair)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) KeyPairOption {
	return func(k *KeyPair) {
		k.logger = l
	}
}

// WithDebounce sets the minimum time between reloads.
func WithDebounce(d time.Duration) KeyPairOption {
	return func(k *KeyPair) {
		k.debounce = d
	}
}

// LoadKeyPair loads the pair once. Call Watch to follow changes.
func LoadKeyPair(certFile, keyFile string, opts ...KeyPairOption) (*KeyPair, error) {
	k := &KeyPair{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   logger.Default(),
		debounce: 500 * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(k)
	}

	if err := k.Reload(); err != nil {
		return nil, fmt.Errorf("tlsroots: initial load: %w", err)
	}
	return k, nil
}

// ServerConfig returns a TLS config that always presents the current
// certificate.
func (k *KeyPair) ServerConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: k.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}

// GetCertificate implements tls.Config.GetCertificate.
func (k *KeyPair) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.cert, nil
}

// Reload reads both files again. On failure the previous certificate stays
// in service.
func (k *KeyPair) Reload() error {
	cert, err := tls.LoadX509KeyPair(k.certFile, k.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}

	k.mu.Lock()
	k.cert = &cert
	k.mu.Unlock()

	k.logger.Info("certificate loaded", "cert_file", k.certFile)
	return nil
}

// Watch starts following the files in a background goroutine.
func (k *KeyPair) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}

	dirs := map[string]bool{filepath.Dir(k.certFile): true, filepath.Dir(k.keyFile): true}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return fmt.Errorf("tlsroots: watch %s: %w", dir, err)
		}
	}
	k.watcher = w

	go k.loop()
	return nil
}

// Stop ends watching. It is safe to call more than once and without Watch.
func (k *KeyPair) Stop() error {
	var err error
	k.stopOnce.Do(func() {
		close(k.done)
		if k.watcher != nil {
			err = k.watcher.Close()
		}
	})
	return err
}

func (k *KeyPair) loop() {
	certBase := filepath.Base(k.certFile)
	keyBase := filepath.Base(k.keyFile)

	for {
		select {
		case event, ok := <-k.watcher.Events:
			if !ok {
				return
			}
			base := filepath.Base(event.Name)
			if base != certBase && base != keyBase {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := k.debouncedReload(); err != nil {
				k.logger.Error("certificate reload failed", "cert_file", k.certFile, "error", err)
			}

		case err, ok := <-k.watcher.Errors:
			if !ok {
				return
			}
			k.logger.Error("certificate watcher error", "error", err)

		case <-k.done:
			return
		}
	}
}

func (k *KeyPair) debouncedReload() error {
	k.reloadMu.Lock()
	defer k.reloadMu.Unlock()

	now := time.Now()
	if now.Sub(k.lastReload) < k.debounce {
		return nil
	}
	k.lastReload = now

	// Writers often replace cert and key in two steps.
	time.Sleep(100 * time.Millisecond)
	return k.Reload()
}
