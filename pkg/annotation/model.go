package annotation

import (
	"fmt"

	"github.com/matzehuels/featuretable/pkg/errors"
)

// Strand is the orientation of a feature relative to the reference sequence.
type Strand int

const (
	// StrandUnknown means the orientation was never resolved.
	StrandUnknown Strand = iota
	StrandForward
	StrandReverse
)

// ParseStrand converts a GFF-style strand symbol. "." and "?" map to
// StrandUnknown without error.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return StrandForward, nil
	case "-":
		return StrandReverse, nil
	case "", ".", "?":
		return StrandUnknown, nil
	}
	return StrandUnknown, errors.New(errors.ErrCodeInvalidInput, "invalid strand %q", s)
}

func (s Strand) String() string {
	switch s {
	case StrandForward:
		return "+"
	case StrandReverse:
		return "-"
	}
	return "."
}

// Truncation marks which ends of a segment were not fully observed.
type Truncation int

const (
	TruncationNone Truncation = iota
	TruncationFivePrime
	TruncationThreePrime
	TruncationBoth
)

// ParseTruncation accepts "none", "5'", "3'" and "both" (and the spelled-out
// "five_prime" / "three_prime").
func ParseTruncation(s string) (Truncation, error) {
	switch s {
	case "", "none":
		return TruncationNone, nil
	case "5'", "five_prime":
		return TruncationFivePrime, nil
	case "3'", "three_prime":
		return TruncationThreePrime, nil
	case "both":
		return TruncationBoth, nil
	}
	return TruncationNone, errors.New(errors.ErrCodeInvalidInput, "invalid truncation %q", s)
}

func (t Truncation) String() string {
	switch t {
	case TruncationFivePrime:
		return "5'"
	case TruncationThreePrime:
		return "3'"
	case TruncationBoth:
		return "both"
	}
	return "none"
}

// FivePrime reports whether the 5' end is truncated.
func (t Truncation) FivePrime() bool {
	return t == TruncationFivePrime || t == TruncationBoth
}

// ThreePrime reports whether the 3' end is truncated.
func (t Truncation) ThreePrime() bool {
	return t == TruncationThreePrime || t == TruncationBoth
}

// Phase is the zero-based offset of the first complete codon in a segment.
type Phase uint8

// ParsePhase converts a GFF phase column. "." is treated as 0.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "0", ".", "":
		return 0, nil
	case "1":
		return 1, nil
	case "2":
		return 2, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid phase %q", s)
}

// CodonStart returns the one-based codon_start qualifier value.
func (p Phase) CodonStart() int {
	return int(p) + 1
}

// Attribute is one key of an ordered multimap with its values.
type Attribute struct {
	Key    string
	Values []string
}

// Attributes is an ordered multimap of qualifiers. Keys may repeat.
type Attributes []Attribute

// Add appends a new entry. It never merges with an existing key.
func (a *Attributes) Add(key string, values ...string) {
	*a = append(*a, Attribute{Key: key, Values: values})
}

// Get returns the values of the first entry named key.
func (a Attributes) Get(key string) ([]string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Values, true
		}
	}
	return nil, false
}

// First returns the first value of the first entry named key, or "".
func (a Attributes) First(key string) string {
	if vs, ok := a.Get(key); ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Len returns the number of (key, value) pairs.
func (a Attributes) Len() int {
	n := 0
	for _, attr := range a {
		n += len(attr.Values)
	}
	return n
}

// Segment is one exon-like part of a CDS.
type Segment struct {
	Start, End int
	Strand     Strand
	Truncation Truncation
	Phase      Phase
	Attributes Attributes
}

// CDS is a coding sequence made of ordered segments.
type CDS struct {
	Name     string
	Segments []*Segment
}

// Gene is an annotated gene with its coding sequences.
type Gene struct {
	Name       string
	Start, End int
	Strand     Strand
	Attributes Attributes
	CDSes      []*CDS

	// SeqID is the sequence identifier from the annotation source, if any.
	SeqID string
}

// GeneMap is the annotation of one sequence.
type GeneMap struct {
	Genes []*Gene
}

// IsEmpty reports whether the map has no genes.
func (m *GeneMap) IsEmpty() bool {
	return m == nil || len(m.Genes) == 0
}

// SeqID returns the first gene's sequence identifier, or "" when the map is
// empty or the first gene carries none.
func (m *GeneMap) SeqID() string {
	if m.IsEmpty() {
		return ""
	}
	return m.Genes[0].SeqID
}

// Counts returns the number of genes, CDSes and segments in the map.
func (m *GeneMap) Counts() (genes, cdses, segments int) {
	if m == nil {
		return 0, 0, 0
	}
	for _, g := range m.Genes {
		genes++
		for _, c := range g.CDSes {
			cdses++
			segments += len(c.Segments)
		}
	}
	return genes, cdses, segments
}

// Validate checks ranges and field text of every feature. Writers do not call
// it; loaders do.
func (m *GeneMap) Validate() error {
	if m == nil {
		return nil
	}
	for gi, g := range m.Genes {
		what := fmt.Sprintf("gene %d (%s)", gi, g.Name)
		if err := errors.ValidateRange(what, g.Start, g.End); err != nil {
			return err
		}
		if err := errors.ValidateFieldText(what+" seqid", g.SeqID); err != nil {
			return err
		}
		if err := validateAttributes(what, g.Attributes); err != nil {
			return err
		}
		for ci, c := range g.CDSes {
			for si, s := range c.Segments {
				what := fmt.Sprintf("%s cds %d segment %d", what, ci, si)
				if err := errors.ValidateRange(what, s.Start, s.End); err != nil {
					return err
				}
				if s.Phase > 2 {
					return errors.New(errors.ErrCodeInvalidInput, "%s: phase %d out of range", what, s.Phase)
				}
				if err := validateAttributes(what, s.Attributes); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func validateAttributes(what string, attrs Attributes) error {
	for _, a := range attrs {
		if err := errors.ValidateFieldText(what+" qualifier key", a.Key); err != nil {
			return err
		}
		for _, v := range a.Values {
			if err := errors.ValidateFieldText(what+" qualifier value", v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Result is one analysed sequence together with its annotation.
type Result struct {
	SeqName    string
	Annotation *GeneMap
}

// SplitBySeqID groups genes by SeqID in order of first appearance. Each group
// keeps the relative gene order of m.
func (m *GeneMap) SplitBySeqID() []Result {
	if m.IsEmpty() {
		return nil
	}
	var results []Result
	index := map[string]int{}
	for _, g := range m.Genes {
		i, ok := index[g.SeqID]
		if !ok {
			i = len(results)
			index[g.SeqID] = i
			results = append(results, Result{SeqName: g.SeqID, Annotation: &GeneMap{}})
		}
		results[i].Annotation.Genes = append(results[i].Annotation.Genes, g)
	}
	return results
}
