// Package pipeline provides the load → render flow behind every featuretable
// entry point.
//
// The CLI and the HTTP server both hand raw annotation bytes to a [Runner],
// which decodes them, serializes the feature table and caches the rendered
// text by input content. Keeping this in one place means both surfaces key
// the cache the same way and report the same statistics.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source: "annotation.gff3",
//	    Input:  data,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(res.Table)
package pipeline

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/featuretable/pkg/annotation"
	"github.com/matzehuels/featuretable/pkg/errors"
)

// Input formats.
const (
	FormatJSON = "json"
	FormatGFF3 = "gff3"
)

// DefaultTableTTL is how long a rendered table stays cached.
const DefaultTableTTL = 7 * 24 * time.Hour

// ValidFormats is the set of supported input formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatGFF3: true,
}

// Options configures one conversion.
type Options struct {
	// Input is the raw annotation.
	Input []byte

	// Source names the input for logs and format detection, usually a path.
	Source string

	// Format is FormatJSON or FormatGFF3. Empty means detect.
	Format string

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool

	// TTL overrides DefaultTableTTL when positive.
	TTL time.Duration

	Logger *log.Logger

	validated bool
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Table is the rendered feature table.
	Table string

	// Results holds the decoded annotation. It is nil on a cache hit.
	Results []annotation.Result

	Stats Stats

	// CacheHit reports whether Table came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics. Feature counts are zero on a
// cache hit.
type Stats struct {
	Genes      int
	CDSes      int
	Segments   int
	Bytes      int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, gff3)", format)
	}
	return nil
}

// ValidateAndSetDefaults resolves the format and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		format, err := DetectFormat(o.Source, o.Input)
		if err != nil {
			return err
		}
		o.Format = format
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTableTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// DetectFormat picks an input format from the source extension, falling back
// to the first bytes of input.
func DetectFormat(source string, input []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		return FormatJSON, nil
	case ".gff", ".gff3":
		return FormatGFF3, nil
	}

	trimmed := bytes.TrimSpace(input)
	switch {
	case len(trimmed) == 0:
		return "", errors.New(errors.ErrCodeInvalidInput, "%s: empty input", sourceName(source))
	case trimmed[0] == '{' || trimmed[0] == '[':
		return FormatJSON, nil
	case bytes.HasPrefix(trimmed, []byte("##gff-version")):
		return FormatGFF3, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "%s: cannot detect input format, use --format", sourceName(source))
}

// Load decodes input in the given format. GFF3 genes are grouped into one
// result per sequence id.
func Load(input []byte, format string) ([]annotation.Result, error) {
	switch format {
	case FormatJSON:
		return annotation.ReadResultsJSON(bytes.NewReader(input))
	case FormatGFF3:
		m, err := annotation.ReadGFF3(bytes.NewReader(input))
		if err != nil {
			return nil, err
		}
		return m.SplitBySeqID(), nil
	}
	return nil, ValidateFormat(format)
}

func countFeatures(results []annotation.Result) (genes, cdses, segments int) {
	for _, res := range results {
		g, c, s := res.Annotation.Counts()
		genes += g
		cdses += c
		segments += s
	}
	return genes, cdses, segments
}

func sourceName(source string) string {
	if source == "" || source == "-" {
		return "<stdin>"
	}
	return source
}
