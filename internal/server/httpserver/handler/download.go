package handler

import (
	"mime"
	"net/http"
	"strconv"
)

// handleDownload handles GET /download/{token}.
//
// The password may be given as ?password= or in the X-File-Password header.
func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	tok := r.PathValue("token")

	password := r.URL.Query().Get("password")
	if password == "" {
		password = r.Header.Get("X-File-Password")
	}

	obj, err := h.files.Download(r.Context(), tok, password)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", obj.MediaType)
	hdr.Set("Content-Disposition", contentDisposition(obj.DisplayName))
	hdr.Set("Content-Length", strconv.FormatInt(obj.SizeBytes, 10))
	hdr.Set("Cache-Control", "no-store")
	hdr.Set("X-Content-Type-Options", "nosniff")
	if obj.Digest != "" {
		hdr.Set("X-Content-Digest", "sha256="+obj.Digest)
	}
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(obj.Payload); err != nil {
		h.logger.Debug("download write aborted", "error", err)
	}
}

// contentDisposition builds an attachment header, quoting or RFC 2231
// encoding the filename as needed.
func contentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return `attachment; filename="download"`
}
