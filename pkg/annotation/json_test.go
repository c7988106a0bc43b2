package annotation

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/featuretable/pkg/errors"
)

const spikeJSON = `{
  "genes": [
    {
      "name": "S",
      "seqId": "MN908947.3",
      "start": 21562,
      "end": 25384,
      "strand": "+",
      "attributes": {"gene": "S", "note": ["b", "a"], "locus_tag": ["GU280_gp02"]},
      "cdses": [
        {
          "name": "S",
          "segments": [
            {"start": 21562, "end": 25384, "strand": "+", "truncation": "5'", "phase": 1,
             "attributes": {"product": ["surface glycoprotein"]}}
          ]
        }
      ]
    }
  ]
}`

func TestReadJSON(t *testing.T) {
	m, err := ReadJSON(strings.NewReader(spikeJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if len(m.Genes) != 1 {
		t.Fatalf("genes = %d, want 1", len(m.Genes))
	}
	g := m.Genes[0]
	if g.Name != "S" || g.SeqID != "MN908947.3" || g.Start != 21562 || g.End != 25384 || g.Strand != StrandForward {
		t.Errorf("gene = %+v", g)
	}

	wantAttrs := Attributes{
		{Key: "gene", Values: []string{"S"}},
		{Key: "note", Values: []string{"b", "a"}},
		{Key: "locus_tag", Values: []string{"GU280_gp02"}},
	}
	if !reflect.DeepEqual(g.Attributes, wantAttrs) {
		t.Errorf("attributes = %+v, want %+v", g.Attributes, wantAttrs)
	}

	seg := g.CDSes[0].Segments[0]
	if seg.Truncation != TruncationFivePrime || seg.Phase != 1 || seg.Strand != StrandForward {
		t.Errorf("segment = %+v", seg)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"malformed", `{"genes": [`, errors.ErrCodeInvalidFormat},
		{"bad strand", `{"genes": [{"start": 0, "end": 1, "strand": "x"}]}`, errors.ErrCodeInvalidInput},
		{"bad truncation", `{"genes": [{"start": 0, "end": 1, "strand": "+", "cdses": [{"segments": [{"start": 0, "end": 1, "strand": "+", "truncation": "mid"}]}]}]}`, errors.ErrCodeInvalidInput},
		{"bad phase", `{"genes": [{"start": 0, "end": 1, "strand": "+", "cdses": [{"segments": [{"start": 0, "end": 1, "strand": "+", "phase": 5}]}]}]}`, errors.ErrCodeInvalidInput},
		{"reversed range", `{"genes": [{"start": 5, "end": 1, "strand": "+"}]}`, errors.ErrCodeInvalidInput},
		{"attribute not string", `{"genes": [{"start": 0, "end": 1, "strand": "+", "attributes": {"n": 3}}]}`, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestReadJSONMissingStrand(t *testing.T) {
	m, err := ReadJSON(strings.NewReader(`{"genes": [{"start": 0, "end": 10}]}`))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if m.Genes[0].Strand != StrandUnknown {
		t.Errorf("strand = %v, want unknown", m.Genes[0].Strand)
	}
}

func TestReadResultsJSON(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		in := `[{"seqName": "a", "annotation": ` + spikeJSON + `}, {"seqName": "b", "annotation": {"genes": []}}]`
		results, err := ReadResultsJSON(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ReadResultsJSON() error: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("results = %d, want 2", len(results))
		}
		if results[0].SeqName != "a" || len(results[0].Annotation.Genes) != 1 {
			t.Errorf("results[0] = %+v", results[0])
		}
		if !results[1].Annotation.IsEmpty() {
			t.Error("results[1] should be empty")
		}
	})

	t.Run("bare gene map", func(t *testing.T) {
		results, err := ReadResultsJSON(strings.NewReader("\n  " + spikeJSON))
		if err != nil {
			t.Fatalf("ReadResultsJSON() error: %v", err)
		}
		if len(results) != 1 || results[0].SeqName != "" {
			t.Errorf("results = %+v", results)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ReadResultsJSON(strings.NewReader(`"nope"`))
		if !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestAttributesJSONRoundTrip(t *testing.T) {
	var a Attributes
	a.Add("note", "x")
	a.Add("gene", "S")
	a.Add("note", "y", "z")

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	want := `{"note":["x"],"gene":["S"],"note":["y","z"]}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var back Attributes
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !reflect.DeepEqual(a, back) {
		t.Errorf("round trip = %+v, want %+v", back, a)
	}
}

func TestWriteJSONReadable(t *testing.T) {
	m, err := ReadJSON(strings.NewReader(spikeJSON))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(m, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON(WriteJSON()) error: %v", err)
	}
	if !reflect.DeepEqual(m, back) {
		t.Errorf("re-read model differs:\n%+v\n%+v", m, back)
	}
}

func TestImportJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genes.json")
	if err := os.WriteFile(path, []byte(spikeJSON), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportJSON(path); err != nil {
		t.Errorf("ImportJSON() error: %v", err)
	}
	if _, err := ImportJSON(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
}
