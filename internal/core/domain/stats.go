// Package domain defines the core domain models for FileDrop.
package domain

// StoreStats is a consistent snapshot of store utilization.
type StoreStats struct {
	// Objects is the number of live (not yet removed) objects.
	Objects int `json:"objects"`
	// UsedBytes is the sum of SizeBytes over live objects.
	UsedBytes int64 `json:"used_bytes"`
	// MaxFileSize is the per-object limit.
	MaxFileSize int64 `json:"max_file_size"`
	// MaxTotalMemory is the aggregate limit.
	MaxTotalMemory int64 `json:"max_total_memory"`
}

// FreeBytes returns the remaining aggregate capacity.
func (s StoreStats) FreeBytes() int64 {
	if free := s.MaxTotalMemory - s.UsedBytes; free > 0 {
		return free
	}
	return 0
}
