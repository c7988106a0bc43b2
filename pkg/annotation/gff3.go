package annotation

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/featuretable/pkg/errors"
)

// GFF3 column indices.
// http://www.sequenceontology.org/gff3.shtml
const (
	gffSeqid = iota
	gffSource
	gffType
	gffStart
	gffEnd
	gffScore
	gffStrand
	gffPhase
	gffAttributes
	gffColumns
)

// Attribute keys that describe file structure or partiality rather than the
// feature itself. They are consumed by the reader and not kept as qualifiers.
var gffStructuralKeys = map[string]bool{
	"ID":          true,
	"Parent":      true,
	"partial":     true,
	"start_range": true,
	"end_range":   true,
}

type cdsKey struct {
	gene *Gene
	id   string
}

type gffRecord struct {
	line   int
	seqid  string
	typ    string
	start  int
	end    int
	strand Strand
	phase  Phase
	id     string
	parent []string
	attrs  Attributes
	raw    Attributes
}

// ReadGFF3 builds a gene map from GFF3 "gene" and "CDS" records.
//
// CDS records point at their gene through Parent, either directly or through
// one intermediate feature (mRNA, transcript). CDS records sharing an ID
// become segments of one CDS, in file order. Coordinates are converted from
// the one-based closed GFF convention to zero-based half-open.
func ReadGFF3(r io.Reader) (*GeneMap, error) {
	var (
		genes     []*Gene
		geneByID  = map[string]*Gene{}
		parentOf  = map[string]string{}
		cdsByKey  = map[cdsKey]*CDS{}
		cdsRecord []gffRecord
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "##FASTA" {
			break
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rec, err := parseGFFLine(line, lineNo)
		if err != nil {
			return nil, err
		}

		switch rec.typ {
		case "gene":
			g := &Gene{
				Name:       gffFeatureName(rec),
				SeqID:      rec.seqid,
				Start:      rec.start,
				End:        rec.end,
				Strand:     rec.strand,
				Attributes: rec.attrs,
			}
			genes = append(genes, g)
			if rec.id != "" {
				geneByID[rec.id] = g
			}
		case "CDS":
			cdsRecord = append(cdsRecord, rec)
		default:
			if rec.id != "" && len(rec.parent) > 0 {
				parentOf[rec.id] = rec.parent[0]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read gff3")
	}

	for _, rec := range cdsRecord {
		g := resolveGene(rec, geneByID, parentOf)
		if g == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "gff3 line %d: CDS has no parent gene", rec.line)
		}

		key := cdsKey{gene: g, id: rec.id}
		if key.id == "" {
			key.id = strings.Join(rec.parent, ",")
		}
		c, ok := cdsByKey[key]
		if !ok {
			c = &CDS{Name: gffFeatureName(rec)}
			cdsByKey[key] = c
			g.CDSes = append(g.CDSes, c)
		}
		c.Segments = append(c.Segments, &Segment{
			Start:      rec.start,
			End:        rec.end,
			Strand:     rec.strand,
			Truncation: gffTruncation(rec),
			Phase:      rec.phase,
			Attributes: rec.attrs,
		})
	}

	m := &GeneMap{Genes: genes}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ImportGFF3 reads a gene map from a GFF3 file at path.
func ImportGFF3(path string) (*GeneMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ReadGFF3(f)
}

func parseGFFLine(line string, lineNo int) (gffRecord, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != gffColumns {
		return gffRecord{}, errors.New(errors.ErrCodeInvalidFormat, "gff3 line %d: expected %d columns, got %d", lineNo, gffColumns, len(fields))
	}

	start, err := strconv.Atoi(fields[gffStart])
	if err != nil || start < 1 {
		return gffRecord{}, errors.New(errors.ErrCodeInvalidFormat, "gff3 line %d: invalid start %q", lineNo, fields[gffStart])
	}
	end, err := strconv.Atoi(fields[gffEnd])
	if err != nil {
		return gffRecord{}, errors.New(errors.ErrCodeInvalidFormat, "gff3 line %d: invalid end %q", lineNo, fields[gffEnd])
	}
	strand, err := ParseStrand(fields[gffStrand])
	if err != nil {
		return gffRecord{}, fmt.Errorf("gff3 line %d: %w", lineNo, err)
	}
	phase, err := ParsePhase(fields[gffPhase])
	if err != nil {
		return gffRecord{}, fmt.Errorf("gff3 line %d: %w", lineNo, err)
	}
	raw, err := parseGFFAttributes(fields[gffAttributes])
	if err != nil {
		return gffRecord{}, fmt.Errorf("gff3 line %d: %w", lineNo, err)
	}

	rec := gffRecord{
		line:   lineNo,
		seqid:  unescapeGFF(fields[gffSeqid]),
		typ:    fields[gffType],
		start:  start - 1,
		end:    end,
		strand: strand,
		phase:  phase,
		raw:    raw,
	}
	rec.id = raw.First("ID")
	rec.parent, _ = raw.Get("Parent")
	for _, a := range raw {
		if !gffStructuralKeys[a.Key] {
			rec.attrs = append(rec.attrs, a)
		}
	}
	return rec, nil
}

// parseGFFAttributes splits column 9 ("k=v1,v2;k2=v3") keeping order.
func parseGFFAttributes(col string) (Attributes, error) {
	var attrs Attributes
	if col == "." || col == "" {
		return attrs, nil
	}
	for _, pair := range strings.Split(col, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "malformed attribute %q", pair)
		}
		var values []string
		for _, v := range strings.Split(value, ",") {
			values = append(values, unescapeGFF(v))
		}
		attrs.Add(unescapeGFF(key), values...)
	}
	return attrs, nil
}

func unescapeGFF(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}

func gffFeatureName(rec gffRecord) string {
	for _, key := range []string{"Name", "gene", "ID"} {
		if v := rec.raw.First(key); v != "" {
			return v
		}
	}
	return ""
}

// gffTruncation maps start_range/end_range on the lower/upper coordinate to
// the 5'/3' end according to strand.
func gffTruncation(rec gffRecord) Truncation {
	lower := false
	if v, ok := rec.raw.Get("start_range"); ok && len(v) > 1 && v[0] == "." {
		lower = true
	}
	upper := false
	if v, ok := rec.raw.Get("end_range"); ok && len(v) > 1 && v[1] == "." {
		upper = true
	}

	fivePrime, threePrime := lower, upper
	if rec.strand == StrandReverse {
		fivePrime, threePrime = upper, lower
	}
	switch {
	case fivePrime && threePrime:
		return TruncationBoth
	case fivePrime:
		return TruncationFivePrime
	case threePrime:
		return TruncationThreePrime
	}
	return TruncationNone
}

func resolveGene(rec gffRecord, geneByID map[string]*Gene, parentOf map[string]string) *Gene {
	for _, p := range rec.parent {
		// CDS -> mRNA -> gene, bounded.
		for depth := 0; depth < 4 && p != ""; depth++ {
			if g, ok := geneByID[p]; ok {
				return g
			}
			p = parentOf[p]
		}
	}
	return nil
}
