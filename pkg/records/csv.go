package records

import (
	"encoding/csv"
	"io"

	"github.com/matzehuels/barchart/pkg/errors"
)

// ParseOptions control CSV tokenization.
type ParseOptions struct {
	Delimiter rune // default ','
	Comment   rune // lines starting with Comment are skipped; 0 disables
}

// Parse reads a CSV document and aggregates it. The first record is the
// header. Malformed CSV is INVALID_FORMAT.
func Parse(r io.Reader, opts ParseOptions) (Table, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.Comment = opts.Comment
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Table{}, errors.New(errors.ErrCodeInvalidFormat, "empty CSV: no header row")
	}
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV rows")
	}
	return Aggregate(header, rows)
}
