package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/yndnr/filedrop/internal/core/domain"
	"github.com/yndnr/filedrop/internal/telemetry/logger"
	"github.com/yndnr/filedrop/internal/telemetry/metric"
	"github.com/yndnr/filedrop/pkg/token"
)

// ObjectStore is the storage contract the services need.
type ObjectStore interface {
	// Insert admits and stores obj, returning its new token.
	Insert(ctx context.Context, obj *domain.StoredObject) (string, error)

	// Fetch returns a live object or domain.ErrFileNotFound.
	Fetch(ctx context.Context, tok string) (*domain.StoredObject, error)

	// Remove deletes an object. domain.ErrFileNotFound means it was already gone.
	Remove(ctx context.Context, tok string) error

	// ListExpired returns tokens whose expiry is before now.
	ListExpired(now time.Time) []string

	// Stats reports occupancy and configured limits.
	Stats() domain.StoreStats
}

// UploadRequest contains parameters for an upload.
type UploadRequest struct {
	Filename    string // Required
	ContentType string // Optional, sniffed from the payload when absent or generic
	Payload     []byte
	Password    string // Optional download password
	ClientIP    string
}

// FileService handles uploads, downloads and status reporting.
type FileService struct {
	store   ObjectStore
	logger  logger.Logger
	metrics *metric.Registry
}

// NewFileService creates a new FileService. A nil logger falls back to the
// package default; a nil metrics registry disables metrics.
func NewFileService(store ObjectStore, log logger.Logger, metrics *metric.Registry) *FileService {
	if log == nil {
		log = logger.Default()
	}
	return &FileService{
		store:   store,
		logger:  log,
		metrics: metrics,
	}
}

// Upload stores a new object and returns it with token and timestamps set.
func (s *FileService) Upload(ctx context.Context, req *UploadRequest) (*domain.StoredObject, error) {
	name := strings.TrimSpace(req.Filename)
	if name == "" {
		s.metrics.RecordUpload(metric.ResultRejected, 0)
		return nil, domain.ErrMissingArgument.WithDetails("no file selected")
	}

	obj := domain.NewStoredObject(name, detectMediaType(req.ContentType, req.Payload), req.Payload)
	obj.AccessSecret = req.Password
	obj.OwnerAddress = domain.NormalizeOwnerAddress(req.ClientIP)
	obj.Digest = token.Digest(req.Payload)

	tok, err := s.store.Insert(ctx, obj)
	if err != nil {
		s.metrics.RecordUpload(uploadResult(err), obj.SizeBytes)
		logger.L(ctx).Warn("upload rejected",
			"filename", name,
			"size", obj.SizeBytes,
			"error", err,
		)
		return nil, err
	}

	s.metrics.RecordUpload(metric.ResultOK, obj.SizeBytes)
	logger.L(ctx).Info("file uploaded",
		"token", tok,
		"filename", name,
		"size", obj.SizeBytes,
		"media_type", obj.MediaType,
		"has_password", obj.HasSecret(),
	)
	return obj, nil
}

// Download returns the object if the supplied password passes the access
// check. Expired and unknown tokens both yield domain.ErrFileNotFound.
func (s *FileService) Download(ctx context.Context, tok, password string) (*domain.StoredObject, error) {
	if !token.ValidFormat(tok) {
		s.metrics.RecordDownload(metric.ResultNotFound, 0)
		return nil, domain.ErrFileNotFound
	}

	obj, err := s.store.Fetch(ctx, tok)
	if err != nil {
		s.metrics.RecordDownload(downloadResult(err), 0)
		return nil, err
	}

	decision := domain.Authorize(obj, password)
	if err := decision.Err(); err != nil {
		s.metrics.RecordDownload(metric.ResultDenied, 0)
		logger.L(ctx).Warn("download denied",
			"token", tok,
			"reason", decision.String(),
		)
		return nil, err
	}

	s.metrics.RecordDownload(metric.ResultOK, obj.SizeBytes)
	logger.L(ctx).Info("file downloaded",
		"token", tok,
		"filename", obj.DisplayName,
		"size", obj.SizeBytes,
	)
	return obj, nil
}

// Describe returns object metadata without a password check. Callers must
// not expose the payload.
func (s *FileService) Describe(ctx context.Context, tok string) (*domain.StoredObject, error) {
	if !token.ValidFormat(tok) {
		return nil, domain.ErrFileNotFound
	}

	obj, err := s.store.Fetch(ctx, tok)
	if err != nil {
		return nil, err
	}
	meta := obj.Clone()
	meta.Payload = nil
	return meta, nil
}

// Status reports store occupancy and limits.
func (s *FileService) Status() domain.StoreStats {
	return s.store.Stats()
}

// detectMediaType keeps a specific client-supplied type and sniffs the
// payload otherwise.
func detectMediaType(supplied string, payload []byte) string {
	supplied = strings.TrimSpace(supplied)
	if supplied != "" && supplied != domain.DefaultMediaType {
		return supplied
	}
	if len(payload) == 0 {
		return domain.DefaultMediaType
	}
	return mimetype.Detect(payload).String()
}

func uploadResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrFileTooLarge),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrFileValidation):
		return metric.ResultRejected
	default:
		return metric.ResultError
	}
}

func downloadResult(err error) string {
	if errors.Is(err, domain.ErrFileNotFound) {
		return metric.ResultNotFound
	}
	return metric.ResultError
}
