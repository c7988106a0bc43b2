// Package tbl writes annotations in the NCBI GenBank Feature Table format.
//
// See https://www.ncbi.nlm.nih.gov/genbank/feature_table/
//
// # Format
//
// A feature table is tab-delimited, has no header row and lets every row
// carry a different number of columns. Each annotated sequence produces one
// block:
//
//	>Feature MN908947.3
//	21563	25384	gene
//				gene	S
//	21563	25384	CDS
//				product	surface glycoprotein
//
// Feature rows hold two coordinates and a feature type. Qualifier rows leave
// the first three columns empty and hold a key and a value.
//
// # Coordinates
//
// Positions are written one-based and inclusive. Reverse-strand features
// list the larger coordinate first. Incomplete ends are marked with "<" on
// the first written coordinate (5' truncation) and ">" on the second (3'
// truncation); the markers follow the written column order, not biological
// direction, so a reverse-strand 3' truncation marks the smaller number.
// See [Coordinates].
//
// # Writing
//
// [Writer] drives the whole block. It writes through a [RecordSink], which
// [NewWriter] backs with a buffered tab-joining sink over any io.Writer:
//
//	w := tbl.NewWriter(os.Stdout)
//	if err := w.WriteGeneMap(geneMap); err != nil {
//	    return err
//	}
//	return w.Flush()
//
// [Create] opens a file (or stdout for "-") and [ResultsToString] renders a
// batch of results in memory.
//
// # Errors
//
// The writer stops at the first failure. Rows written before it stay in the
// destination. A feature without a resolved strand fails with
// ORIENTATION_UNDEFINED; destination failures carry SINK_WRITE.
//
// # Concurrency
//
// A Writer is not safe for concurrent use. Independent writers over
// independent destinations may run in parallel.
package tbl
