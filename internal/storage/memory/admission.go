// Package memory provides the in-memory object store for FileDrop.
package memory

import (
	"fmt"

	"github.com/yndnr/filedrop/internal/core/domain"
	"github.com/yndnr/filedrop/pkg/bytesize"
)

// Default capacity limits.
const (
	DefaultMaxFileSize    int64 = 100 * 1024 * 1024
	DefaultMaxTotalMemory int64 = 500 * 1024 * 1024
)

// Admission decides whether a new object of a given size fits.
//
// It is a pure predicate over the current aggregate and the candidate size.
// The Store evaluates it while holding its write lock, so the aggregate it
// sees cannot be invalidated by a concurrent insert.
type Admission struct {
	MaxFileSize    int64
	MaxTotalMemory int64
}

// Admit returns nil if an object of candidate bytes may be stored when
// current bytes are already in use.
//
// The per-file limit is checked first and does not depend on current.
func (a Admission) Admit(current, candidate int64) error {
	if candidate > a.MaxFileSize {
		return domain.ErrFileTooLarge.WithDetails(
			fmt.Sprintf("maximum file size is %s", bytesize.Format(a.MaxFileSize)))
	}
	if current+candidate > a.MaxTotalMemory {
		return domain.ErrCapacityExceeded.WithDetails(
			fmt.Sprintf("total memory limit is %s, current usage %s",
				bytesize.Format(a.MaxTotalMemory), bytesize.Format(current)))
	}
	return nil
}
