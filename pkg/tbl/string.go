package tbl

import (
	"bytes"
	"unicode/utf8"

	"github.com/matzehuels/featuretable/pkg/annotation"
	"github.com/matzehuels/featuretable/pkg/errors"
)

// ResultsToString renders the annotation of every result, in order, into a
// single string. Results with empty annotations contribute nothing.
func ResultsToString(results []annotation.Result) (string, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, res := range results {
		if err := w.WriteGeneMap(res.Annotation); err != nil {
			return "", err
		}
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	if !utf8.Valid(buf.Bytes()) {
		return "", errors.New(errors.ErrCodeTextDecoding, "feature table is not valid UTF-8")
	}
	return buf.String(), nil
}
