package handler

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/yndnr/filedrop/internal/core/domain"
	"github.com/yndnr/filedrop/internal/core/service"
	"github.com/yndnr/filedrop/internal/telemetry/logger"
	"github.com/yndnr/filedrop/pkg/bytesize"
)

const (
	// multipartSlack covers boundaries, part headers and small form fields
	// on top of the file itself.
	multipartSlack = 1 << 20

	maxPasswordField = 4 << 10

	fieldFile     = "file"
	fieldPassword = "file_password"

	defaultQRSize = 256
)

// handleUpload handles POST /upload.
//
// The body is a multipart form with a "file" part and an optional
// "file_password" field. Parts are streamed; nothing touches disk.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.maxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartSlack)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		WriteError(w, r, domain.ErrBadRequest.WithDetails("expected multipart/form-data body"))
		return
	}

	req := &service.UploadRequest{ClientIP: ClientIP(r, h.trustProxy)}
	var sawFile bool

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			WriteError(w, r, uploadReadError(err))
			return
		}

		switch part.FormName() {
		case fieldFile:
			if sawFile {
				part.Close()
				continue
			}
			sawFile = true
			req.Filename = part.FileName()
			req.ContentType = part.Header.Get("Content-Type")
			req.Payload, err = readLimited(part, h.maxFileSize)
		case fieldPassword:
			var pw []byte
			pw, err = readLimited(part, maxPasswordField)
			if errors.Is(err, domain.ErrFileTooLarge) {
				err = domain.ErrFileValidation.WithDetails("file_password too long")
			}
			req.Password = string(pw)
		}
		part.Close()

		if err != nil {
			WriteError(w, r, uploadReadError(err))
			return
		}
	}

	if !sawFile {
		WriteError(w, r, domain.ErrMissingArgument.WithDetails("no file selected"))
		return
	}

	obj, err := h.files.Upload(r.Context(), req)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	url := h.downloadURL(r, obj.Token)
	qr, err := qrDataURL(url)
	if err != nil {
		// The upload already succeeded; the link is still usable without a QR.
		logger.L(r.Context()).Warn("qr code generation failed", "error", err)
	}

	h.writeJSON(w, r, http.StatusOK, UploadResponse{
		Token:         obj.Token,
		Filename:      obj.DisplayName,
		Size:          obj.SizeBytes,
		SizeFormatted: bytesize.Format(obj.SizeBytes),
		MediaType:     obj.MediaType,
		Digest:        obj.Digest,
		DownloadURL:   url,
		QRCode:        qr,
		HasPassword:   obj.HasSecret(),
		ExpiresAt:     obj.ExpiresAt.UTC(),
		ExpiresIn:     int64(obj.TTL(obj.CreatedAt) / time.Second),
	})
}

// readLimited reads r fully, failing with domain.ErrFileTooLarge once more
// than limit bytes arrive. A non-positive limit reads without bound.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if n > limit {
		return nil, domain.ErrFileTooLarge.WithDetails("maximum size is " + bytesize.Format(limit))
	}
	return buf.Bytes(), nil
}

// uploadReadError maps body read failures to domain errors.
func uploadReadError(err error) error {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return err
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return domain.ErrFileTooLarge.WithCause(err)
	}
	if errors.Is(err, multipart.ErrMessageTooLarge) {
		return domain.ErrFileTooLarge.WithCause(err)
	}
	return domain.ErrBadRequest.WithDetails("malformed multipart body").WithCause(err)
}

// qrDataURL renders content as a PNG QR code embedded in a data URL.
func qrDataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, defaultQRSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
