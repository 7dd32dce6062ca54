// Package codec implements the geodata interchange formats understood by
// the MSP portal: GeoJSON, KML, CSV, and the portal's own MSP-JSON
// project container. Decoders are partial-failure tolerant: malformed
// entries are skipped with a warning, never aborting the batch.
package codec

import (
	"errors"
	"fmt"

	"msp-bknd/internal/models"
)

// Error is a codec-level failure: the input could not be understood as
// the format at all (as opposed to individual bad entries, which become
// warnings).
type Error struct {
	Format string
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Format, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Reason)
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrUnsupportedFormat is returned when content matches none of the
// recognized formats.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// DecodeResult carries the shapes a decoder extracted plus warnings for
// entries it had to skip.
type DecodeResult struct {
	Shapes   []models.Shape
	Warnings []string
}

func (r *DecodeResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
