package handler

import (
	"net/http"
	"strconv"

	"github.com/skip2/go-qrcode"

	"github.com/yndnr/filedrop/internal/core/domain"
)

const (
	minQRSize = 64
	maxQRSize = 1024
)

// handleQRCode handles GET /files/{token}/qr.
//
// It renders the download link only; no password check is done because
// the payload is never revealed.
func (h *Handler) handleQRCode(w http.ResponseWriter, r *http.Request) {
	size := defaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < minQRSize || n > maxQRSize {
			WriteError(w, r, domain.ErrBadRequest.WithDetails("size must be an integer between 64 and 1024"))
			return
		}
		size = n
	}

	obj, err := h.files.Describe(r.Context(), r.PathValue("token"))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	png, err := qrcode.Encode(h.downloadURL(r, obj.Token), qrcode.Medium, size)
	if err != nil {
		WriteError(w, r, domain.ErrInternalServer.WithCause(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
