package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrRowOutOfRange = errors.New("row index out of range")
	ErrEmptySheet    = errors.New("spreadsheet has no header row")
)

// DataFormatError reports a cell whose text cannot be read as the column
// requires. Row is the 0-based table row, or -1 when the value is not in a
// table. SheetRow is the 1-based spreadsheet row for errors raised while
// loading, zero otherwise.
type DataFormatError struct {
	Column   string
	Row      int
	SheetRow int
	Value    string
	Reason   string
}

func (e *DataFormatError) Error() string {
	if e.SheetRow > 0 {
		return fmt.Sprintf("%s spreadsheet row %d: %s %q", e.Column, e.SheetRow, e.Reason, e.Value)
	}
	if e.Row < 0 {
		return fmt.Sprintf("%s: %s %q", e.Column, e.Reason, e.Value)
	}
	return fmt.Sprintf("%s row %d: %s %q", e.Column, e.Row, e.Reason, e.Value)
}

type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}
