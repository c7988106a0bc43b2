package tbl

import (
	"bufio"
	"io"

	"github.com/matzehuels/featuretable/pkg/errors"
)

// RecordSink accepts one row of ordered text fields at a time.
type RecordSink interface {
	WriteRecord(fields []string) error
}

// TabSink writes records joined by a single tab and terminated by "\n".
// Fields are written verbatim: no quoting, no escaping, no header row.
type TabSink struct {
	w *bufio.Writer
}

// NewTabSink returns a buffered TabSink over w. Call Flush when done.
func NewTabSink(w io.Writer) *TabSink {
	return &TabSink{w: bufio.NewWriter(w)}
}

// WriteRecord writes fields as one row.
func (s *TabSink) WriteRecord(fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := s.w.WriteByte('\t'); err != nil {
				return writeError(err)
			}
		}
		if _, err := s.w.WriteString(f); err != nil {
			return writeError(err)
		}
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return writeError(err)
	}
	return nil
}

func (s *TabSink) writeText(text string) error {
	if _, err := s.w.WriteString(text); err != nil {
		return writeError(err)
	}
	return nil
}

// Flush writes any buffered rows to the underlying writer.
func (s *TabSink) Flush() error {
	if err := s.w.Flush(); err != nil {
		return writeError(err)
	}
	return nil
}

func writeError(err error) error {
	return errors.Wrap(errors.ErrCodeSinkWrite, err, "write record")
}
