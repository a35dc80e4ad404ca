package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/filedrop/pkg/bytesize"
)

// handleStatus handles GET /status.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := h.files.Status()

	h.writeJSON(w, r, http.StatusOK, StatusResponse{
		Status:      "running",
		Version:     h.version,
		ServerURL:   h.baseURL(r),
		ActiveFiles: stats.Objects,
		MemoryUsage: MemoryUsage{
			CurrentBytes:     stats.UsedBytes,
			CurrentFormatted: bytesize.Format(stats.UsedBytes),
			MaxBytes:         stats.MaxTotalMemory,
			MaxFormatted:     bytesize.Format(stats.MaxTotalMemory),
			UsagePercentage:  bytesize.Percent(stats.UsedBytes, stats.MaxTotalMemory),
			FreeBytes:        stats.FreeBytes(),
			FreeFormatted:    bytesize.Format(stats.FreeBytes()),
		},
		FileLimits: FileLimits{
			MaxFileSizeBytes:     stats.MaxFileSize,
			MaxFileSizeFormatted: bytesize.Format(stats.MaxFileSize),
		},
		ServerTime:        time.Now().UTC(),
		PasswordProtected: false,
	})
}
