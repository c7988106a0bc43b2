package annotation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/featuretable/pkg/errors"
)

type geneMapJSON struct {
	Genes []geneJSON `json:"genes"`
}

type geneJSON struct {
	Name       string     `json:"name,omitempty"`
	SeqID      string     `json:"seqId,omitempty"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Strand     string     `json:"strand"`
	Attributes Attributes `json:"attributes,omitempty"`
	CDSes      []cdsJSON  `json:"cdses,omitempty"`
}

type cdsJSON struct {
	Name     string        `json:"name,omitempty"`
	Segments []segmentJSON `json:"segments"`
}

type segmentJSON struct {
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Strand     string     `json:"strand"`
	Truncation string     `json:"truncation,omitempty"`
	Phase      int        `json:"phase"`
	Attributes Attributes `json:"attributes,omitempty"`
}

type resultJSON struct {
	SeqName    string      `json:"seqName"`
	Annotation geneMapJSON `json:"annotation"`
}

// UnmarshalJSON decodes a JSON object into attributes, keeping key order.
// Each value may be a string or an array of strings.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*a = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("attributes: expected object, got %v", tok)
	}

	var out Attributes
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string) // object keys are always strings

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("attributes %q: %w", key, err)
		}
		var values []string
		if len(raw) > 0 && raw[0] == '"' {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("attributes %q: %w", key, err)
			}
			values = []string{s}
		} else if err := json.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("attributes %q: expected string or array of strings", key)
		}
		out = append(out, Attribute{Key: key, Values: values})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// MarshalJSON encodes attributes as a JSON object in stored order. Repeated
// keys are emitted as repeated object members.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(attr.Key)
		if err != nil {
			return nil, err
		}
		values := attr.Values
		if values == nil {
			values = []string{}
		}
		v, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ReadJSON decodes a gene map from r and validates it.
func ReadJSON(r io.Reader) (*GeneMap, error) {
	var in geneMapJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode gene map")
	}
	m, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ImportJSON reads a gene map from a JSON file at path.
func ImportJSON(path string) (*GeneMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadResultsJSON decodes either a results array
// ([{"seqName": ..., "annotation": {...}}, ...]) or a single gene map object.
// A bare gene map becomes one result with an empty name.
func ReadResultsJSON(r io.Reader) ([]Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		m, err := ReadJSON(bytes.NewReader(trimmed))
		if err != nil {
			return nil, err
		}
		return []Result{{Annotation: m}}, nil
	}

	var in []resultJSON
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode results")
	}
	results := make([]Result, 0, len(in))
	for i, res := range in {
		m, err := res.Annotation.toModel()
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		results = append(results, Result{SeqName: res.SeqName, Annotation: m})
	}
	return results, nil
}

// WriteJSON encodes a gene map in the format accepted by [ReadJSON].
func WriteJSON(m *GeneMap, w io.Writer) error {
	out := geneMapJSON{Genes: []geneJSON{}}
	if m != nil {
		for _, g := range m.Genes {
			gj := geneJSON{
				Name:       g.Name,
				SeqID:      g.SeqID,
				Start:      g.Start,
				End:        g.End,
				Strand:     g.Strand.String(),
				Attributes: g.Attributes,
			}
			for _, c := range g.CDSes {
				cj := cdsJSON{Name: c.Name, Segments: make([]segmentJSON, 0, len(c.Segments))}
				for _, s := range c.Segments {
					cj.Segments = append(cj.Segments, segmentJSON{
						Start:      s.Start,
						End:        s.End,
						Strand:     s.Strand.String(),
						Truncation: s.Truncation.String(),
						Phase:      int(s.Phase),
						Attributes: s.Attributes,
					})
				}
				gj.CDSes = append(gj.CDSes, cj)
			}
			out.Genes = append(out.Genes, gj)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func (in geneMapJSON) toModel() (*GeneMap, error) {
	m := &GeneMap{Genes: make([]*Gene, 0, len(in.Genes))}
	for gi, gj := range in.Genes {
		strand, err := ParseStrand(gj.Strand)
		if err != nil {
			return nil, fmt.Errorf("gene %d: %w", gi, err)
		}
		g := &Gene{
			Name:       gj.Name,
			SeqID:      gj.SeqID,
			Start:      gj.Start,
			End:        gj.End,
			Strand:     strand,
			Attributes: gj.Attributes,
		}
		for ci, cj := range gj.CDSes {
			c := &CDS{Name: cj.Name, Segments: make([]*Segment, 0, len(cj.Segments))}
			for si, sj := range cj.Segments {
				s, err := sj.toModel()
				if err != nil {
					return nil, fmt.Errorf("gene %d cds %d segment %d: %w", gi, ci, si, err)
				}
				c.Segments = append(c.Segments, s)
			}
			g.CDSes = append(g.CDSes, c)
		}
		m.Genes = append(m.Genes, g)
	}
	return m, nil
}

func (sj segmentJSON) toModel() (*Segment, error) {
	strand, err := ParseStrand(sj.Strand)
	if err != nil {
		return nil, err
	}
	trunc, err := ParseTruncation(sj.Truncation)
	if err != nil {
		return nil, err
	}
	if sj.Phase < 0 || sj.Phase > 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid phase %d", sj.Phase)
	}
	return &Segment{
		Start:      sj.Start,
		End:        sj.End,
		Strand:     strand,
		Truncation: trunc,
		Phase:      Phase(sj.Phase),
		Attributes: sj.Attributes,
	}, nil
}

func openError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	return errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
}
