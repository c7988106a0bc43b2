package pipeline

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/matzehuels/featuretable/pkg/buildinfo"
	"github.com/matzehuels/featuretable/pkg/cache"
	"github.com/matzehuels/featuretable/pkg/errors"
	"github.com/matzehuels/featuretable/pkg/observability"
)

const geneMapJSON = `{"genes":[{"name":"N","seqId":"MN908947.3","start":28273,"end":29533,"strand":"+",
 "attributes":{"gene":"N"},
 "cdses":[{"name":"N","segments":[{"start":28273,"end":29533,"strand":"+","phase":0,
  "attributes":{"product":"nucleocapsid phosphoprotein"}}]}]}]}`

const geneMapGFF3 = "##gff-version 3\n" +
	"MN908947.3\tGenBank\tgene\t28274\t29533\t.\t+\t.\tID=gene-N;gene=N\n" +
	"MN908947.3\tGenBank\tCDS\t28274\t29533\t.\t+\t0\tID=cds-N;Parent=gene-N;product=nucleocapsid phosphoprotein\n"

const wantTable = ">Feature MN908947.3\n" +
	"28274\t29533\tgene\n" +
	"\t\t\tgene\tN\n" +
	"28274\t29533\tCDS\n" +
	"\t\t\tproduct\tnucleocapsid phosphoprotein\n"

// memCache is an in-memory cache.Cache with injectable failures.
type memCache struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.sets++
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

type recordingHooks struct {
	hits, misses, sets int
}

func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"gff3", false},
		{"gff", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		input   string
		want    string
		wantErr errors.Code
	}{
		{"json extension", "a.json", "", FormatJSON, ""},
		{"gff extension", "a.GFF", "", FormatGFF3, ""},
		{"gff3 extension", "dir/a.gff3", "", FormatGFF3, ""},
		{"sniff object", "-", "  {\"genes\":[]}", FormatJSON, ""},
		{"sniff array", "", "[]", FormatJSON, ""},
		{"sniff gff3", "upload", "##gff-version 3\n", FormatGFF3, ""},
		{"empty", "", " \n", "", errors.ErrCodeInvalidInput},
		{"unknown", "notes.txt", "hello", "", errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.source, []byte(tt.input))
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DetectFormat() error = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFormat() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Source: "a.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Format != FormatJSON {
		t.Errorf("Format = %q, want json", opts.Format)
	}
	if opts.TTL != DefaultTableTTL {
		t.Errorf("TTL = %v, want %v", opts.TTL, DefaultTableTTL)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	bad := Options{Format: "xml"}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestLoadGFF3SplitsSequences(t *testing.T) {
	input := "##gff-version 3\n" +
		"chrA\t.\tgene\t1\t9\t.\t+\t.\tID=a;gene=a\n" +
		"chrB\t.\tgene\t1\t9\t.\t-\t.\tID=b;gene=b\n"

	results, err := Load([]byte(input), FormatGFF3)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].SeqName != "chrA" || results[1].SeqName != "chrB" {
		t.Errorf("seq names = %q, %q", results[0].SeqName, results[1].SeqName)
	}
}

func TestRunnerExecute(t *testing.T) {
	tests := []struct {
		name   string
		source string
		input  string
	}{
		{"json", "n.json", geneMapJSON},
		{"gff3", "n.gff3", geneMapGFF3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMemCache()
			r := NewRunner(c, nil, nil)

			res, err := r.Execute(context.Background(), Options{Source: tt.source, Input: []byte(tt.input)})
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if res.Table != wantTable {
				t.Errorf("Table =\n%q\nwant\n%q", res.Table, wantTable)
			}
			if res.CacheHit {
				t.Error("first run should miss the cache")
			}
			if res.Stats.Genes != 1 || res.Stats.CDSes != 1 || res.Stats.Segments != 1 {
				t.Errorf("Stats = %+v", res.Stats)
			}
			if res.Stats.Bytes != len(wantTable) {
				t.Errorf("Stats.Bytes = %d, want %d", res.Stats.Bytes, len(wantTable))
			}
			if len(res.Results) != 1 {
				t.Errorf("Results = %d, want 1", len(res.Results))
			}
			if c.sets != 1 {
				t.Errorf("cache sets = %d, want 1", c.sets)
			}
		})
	}
}

func TestRunnerCache(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Source: "n.json", Input: []byte(geneMapJSON)}

	if _, err := r.Execute(ctx, opts); err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !res.CacheHit {
		t.Error("second run should hit the cache")
	}
	if res.Table != wantTable {
		t.Errorf("cached Table = %q", res.Table)
	}
	if res.Results != nil {
		t.Error("cache hit should not decode the annotation")
	}

	opts.Refresh = true
	res, err = r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute() error: %v", err)
	}
	if res.CacheHit {
		t.Error("refresh should bypass the cache")
	}
	if c.sets != 2 {
		t.Errorf("cache sets = %d, want 2", c.sets)
	}

	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 2 {
		t.Errorf("hooks hits=%d misses=%d sets=%d, want 1/1/2", hooks.hits, hooks.misses, hooks.sets)
	}
}

func TestRunnerFormatInKey(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	// Same bytes under two explicit formats must not share an entry.
	input := []byte(geneMapJSON)
	if _, err := r.Execute(ctx, Options{Input: input, Format: FormatJSON}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if _, err := r.Execute(ctx, Options{Input: input, Format: FormatGFF3}); err == nil {
		t.Error("JSON bytes read as GFF3 should fail rather than hit the JSON entry")
	}
}

func TestRunnerVersionInKey(t *testing.T) {
	old := buildinfo.Version
	defer func() { buildinfo.Version = old }()

	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Input: []byte(geneMapJSON), Format: FormatJSON}

	buildinfo.Version = "v0.1.0"
	if _, err := r.Execute(ctx, opts); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	buildinfo.Version = "v0.2.0"
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.CacheHit {
		t.Error("a table rendered by another build should not be served from cache")
	}
	if len(c.data) != 2 {
		t.Errorf("cache entries = %d, want 2", len(c.data))
	}
}

func TestRunnerCacheFailuresAreSoft(t *testing.T) {
	c := newMemCache()
	c.getErr = stderrors.New("get down")
	c.setErr = stderrors.New("set down")
	r := NewRunner(c, nil, nil)

	res, err := r.Execute(context.Background(), Options{Source: "n.json", Input: []byte(geneMapJSON)})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Table != wantTable {
		t.Errorf("Table = %q", res.Table)
	}
}

func TestRunnerErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{Source: "x.json", Input: []byte("{not json")})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad json error = %v, want INVALID_FORMAT", err)
	}

	noStrand := `{"genes":[{"name":"g","start":0,"end":3,"strand":"."}]}`
	_, err = r.Execute(ctx, Options{Source: "x.json", Input: []byte(noStrand)})
	if !errors.Is(err, errors.ErrCodeOrientationUndefined) {
		t.Errorf("unknown strand error = %v, want ORIENTATION_UNDEFINED", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.Execute(cancelled, Options{Source: "x.json", Input: []byte(geneMapJSON)})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("cancelled error = %v, want context.Canceled", err)
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, ok := r.Cache.(cache.NullCache); !ok {
		t.Errorf("Cache = %T, want cache.NullCache", r.Cache)
	}
	if r.Keyer == nil || r.Logger == nil {
		t.Error("Keyer and Logger should have defaults")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
