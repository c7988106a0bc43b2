package tbl

import (
	"io"
	"os"

	"github.com/matzehuels/featuretable/pkg/errors"
)

// FileWriter is a [Writer] bound to a file or to standard output.
type FileWriter struct {
	*Writer
	sink   *TabSink
	closer io.Closer
	path   string
}

// Create opens path for writing, truncating an existing file. An empty path
// or "-" selects standard output, which Close leaves open.
func Create(path string) (*FileWriter, error) {
	return create(path, os.Stdout)
}

func create(path string, stdout io.Writer) (*FileWriter, error) {
	if path == "" || path == "-" {
		return Wrap(stdout, "-"), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	fw := Wrap(f, path)
	fw.closer = f
	return fw, nil
}

// Wrap returns a FileWriter over w named path. Close flushes w but does not
// close it.
func Wrap(w io.Writer, path string) *FileWriter {
	sink := NewTabSink(w)
	return &FileWriter{
		Writer: NewSinkWriter(sink),
		sink:   sink,
		path:   path,
	}
}

// Path returns the destination path, "-" for standard output.
func (fw *FileWriter) Path() string {
	return fw.path
}

// WriteTable appends an already rendered table, such as one returned by
// [ResultsToString] or read back from a cache.
func (fw *FileWriter) WriteTable(table string) error {
	if fw.sink == nil {
		return errors.New(errors.ErrCodeSinkWrite, "write to closed %s", fw.path)
	}
	return fw.sink.writeText(table)
}

// Close flushes buffered rows and closes the file. It is safe to call more
// than once; only the first call has an effect.
func (fw *FileWriter) Close() error {
	if fw.sink == nil {
		return nil
	}
	err := fw.sink.Flush()
	fw.sink = nil
	if fw.closer != nil {
		if cerr := fw.closer.Close(); err == nil && cerr != nil {
			err = errors.Wrap(errors.ErrCodeSinkWrite, cerr, "close %s", fw.path)
		}
		fw.closer = nil
	}
	return err
}
