package tbl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/featuretable/pkg/annotation"
)

const (
	featureGene = "gene"
	featureCDS  = "CDS"

	qualifierCodonStart = "codon_start"
)

// Flusher is implemented by sinks that buffer rows.
type Flusher interface {
	Flush() error
}

// Writer serializes gene maps as feature table blocks.
type Writer struct {
	sink RecordSink
}

// NewWriter returns a Writer over a buffered [TabSink] on w.
// Call [Writer.Flush] after the last block.
func NewWriter(w io.Writer) *Writer {
	return &Writer{sink: NewTabSink(w)}
}

// NewSinkWriter returns a Writer that emits rows into sink.
func NewSinkWriter(sink RecordSink) *Writer {
	return &Writer{sink: sink}
}

// Flush flushes the sink if it buffers.
func (w *Writer) Flush() error {
	if f, ok := w.sink.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// WriteGeneMap appends one ">Feature" block for m. An empty map writes
// nothing. Every call produces an independent block.
func (w *Writer) WriteGeneMap(m *annotation.GeneMap) error {
	if m.IsEmpty() {
		return nil
	}

	// >Feature gb|MN908947.3|
	if err := w.sink.WriteRecord([]string{">Feature " + m.SeqID()}); err != nil {
		return err
	}

	for _, gene := range m.Genes {
		if err := w.writeGene(gene); err != nil {
			return err
		}
		for _, cds := range gene.CDSes {
			if err := w.writeCDS(gene, cds); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) writeGene(gene *annotation.Gene) error {
	first, second, err := Coordinates(gene.Start, gene.End, gene.Strand, annotation.TruncationNone)
	if err != nil {
		return fmt.Errorf("gene %q: %w", gene.Name, err)
	}
	if err := w.sink.WriteRecord([]string{first, second, featureGene}); err != nil {
		return err
	}
	return writeQualifiers(w.sink, gene.Attributes)
}

func (w *Writer) writeCDS(gene *annotation.Gene, cds *annotation.CDS) error {
	for i, seg := range cds.Segments {
		first, second, err := Coordinates(seg.Start, seg.End, seg.Strand, seg.Truncation)
		if err != nil {
			return fmt.Errorf("gene %q cds %q segment %d: %w", gene.Name, cds.Name, i, err)
		}

		// The feature type only goes on the first interval; the rest continue it.
		featureType := ""
		if i == 0 {
			featureType = featureCDS
		}
		if err := w.sink.WriteRecord([]string{first, second, featureType}); err != nil {
			return err
		}
		if err := writeQualifiers(w.sink, seg.Attributes); err != nil {
			return err
		}

		if i == 0 {
			if codonStart := seg.Phase.CodonStart(); codonStart != 1 {
				if err := writeQualifier(w.sink, qualifierCodonStart, strconv.Itoa(codonStart)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
