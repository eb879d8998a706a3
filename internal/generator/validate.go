package generator

import (
	"errors"
	"fmt"

	"github.com/leo-tosi/TDG/internal/models"
)

var (
	ErrInvalidTotalColumns = errors.New("total_columns must be greater than zero")
	ErrInvalidRowCount     = errors.New("rows_count must not be negative")
	ErrNoColumns           = errors.New("schema has no columns")
	ErrPositionOutOfRange  = errors.New("column position out of range")
	ErrUnknownColumnType   = errors.New("unknown column type")
	ErrInvertedRange       = errors.New("random_number end is less than start")
	ErrLimitExceeded       = errors.New("schema exceeds generation limits")
)

// IsValidation reports whether err came from schema validation rather than I/O.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidTotalColumns, ErrInvalidRowCount, ErrNoColumns,
		ErrPositionOutOfRange, ErrUnknownColumnType, ErrInvertedRange,
		ErrLimitExceeded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Validate checks a schema before synthesis. Positions are always checked;
// empty column lists, unknown types and inverted numeric ranges are only
// rejected in strict mode.
func Validate(totalColumns int, columns []models.ColumnDescriptor, strict bool) error {
	if totalColumns <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTotalColumns, totalColumns)
	}
	if strict && len(columns) == 0 {
		return ErrNoColumns
	}
	for i, col := range columns {
		if col.Position < 1 || col.Position > totalColumns {
			return fmt.Errorf("%w: column %d (%q) has position %d, total_columns is %d",
				ErrPositionOutOfRange, i, col.Name, col.Position, totalColumns)
		}
		if !strict {
			continue
		}
		if !col.Type.Known() {
			return fmt.Errorf("%w: column %d (%q) has type %q", ErrUnknownColumnType, i, col.Name, col.Type)
		}
		if col.Type == models.ColumnRandomNumber && col.End < col.Start {
			return fmt.Errorf("%w: column %d (%q) start=%d end=%d", ErrInvertedRange, i, col.Name, col.Start, col.End)
		}
	}
	return nil
}

// CheckLimits rejects schemas whose rows or text cells exceed the limits.
func CheckLimits(totalColumns int, columns []models.ColumnDescriptor, limits Limits) error {
	if limits.MaxColumns > 0 && totalColumns > limits.MaxColumns {
		return fmt.Errorf("%w: total_columns %d > %d", ErrLimitExceeded, totalColumns, limits.MaxColumns)
	}
	if limits.MaxTextLength <= 0 {
		return nil
	}
	for i, col := range columns {
		if col.Type == models.ColumnText && col.Length != nil && *col.Length > limits.MaxTextLength {
			return fmt.Errorf("%w: column %d (%q) length %d > %d",
				ErrLimitExceeded, i, col.Name, *col.Length, limits.MaxTextLength)
		}
	}
	return nil
}
