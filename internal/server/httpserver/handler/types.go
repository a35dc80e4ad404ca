package handler

import "time"

// Response is the standard API response envelope.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// UploadResponse is the data of a successful POST /upload.
type UploadResponse struct {
	Token         string    `json:"token"`
	Filename      string    `json:"filename"`
	Size          int64     `json:"size"`
	SizeFormatted string    `json:"size_formatted"`
	MediaType     string    `json:"media_type"`
	Digest        string    `json:"digest"`
	DownloadURL   string    `json:"download_url"`
	QRCode        string    `json:"qr_code"`
	HasPassword   bool      `json:"has_password"`
	ExpiresAt     time.Time `json:"expires_at"`
	ExpiresIn     int64     `json:"expires_in"` // seconds
}

// StatusResponse is the data of GET /status.
type StatusResponse struct {
	Status            string      `json:"status"`
	Version           string      `json:"version"`
	ServerURL         string      `json:"server_url"`
	ActiveFiles       int         `json:"active_files"`
	MemoryUsage       MemoryUsage `json:"memory_usage"`
	FileLimits        FileLimits  `json:"file_limits"`
	ServerTime        time.Time   `json:"server_time"`
	PasswordProtected bool        `json:"password_protected"`
}

// MemoryUsage reports store occupancy.
type MemoryUsage struct {
	CurrentBytes     int64   `json:"current_bytes"`
	CurrentFormatted string  `json:"current_formatted"`
	MaxBytes         int64   `json:"max_bytes"`
	MaxFormatted     string  `json:"max_formatted"`
	UsagePercentage  float64 `json:"usage_percentage"`
	FreeBytes        int64   `json:"free_bytes"`
	FreeFormatted    string  `json:"free_formatted"`
}

// FileLimits reports the per-file limit.
type FileLimits struct {
	MaxFileSizeBytes     int64  `json:"max_file_size_bytes"`
	MaxFileSizeFormatted string `json:"max_file_size_formatted"`
}

// HealthResponse is the data of GET /health and GET /ready.
type HealthResponse struct {
	Status  string `json:"status"`
	Time    string `json:"time"`
	Version string `json:"version,omitempty"`
}
