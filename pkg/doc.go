// Package pkg holds the featuretable libraries.
//
// # Overview
//
// featuretable turns gene annotations into the NCBI GenBank feature table
// (.tbl) format, the five-column text file that table2asn reads alongside a
// FASTA submission. The libraries are:
//
//  1. [annotation] - Genes, CDSes and segments, plus JSON and GFF3 loaders
//  2. [tbl] - The serializer: coordinates, qualifier rows, record sinks
//  3. [pipeline] - load → render with caching, shared by CLI and server
//  4. [cache] - File, redis and null caches for rendered tables
//  5. [errors] - Coded errors used across package boundaries
//  6. [observability] - Hooks for metrics and tracing
//
// # Data Flow
//
//	JSON gene map / GFF3
//	         ↓
//	    [annotation] (decode + validate)
//	         ↓
//	    [tbl] (rows: >Feature header, gene, CDS segments, qualifiers)
//	         ↓
//	    .tbl text
//
// # Quick Start
//
//	m, err := annotation.ImportGFF3("sars-cov-2.gff3")
//	if err != nil {
//	    return err
//	}
//	fw, err := tbl.Create("sars-cov-2.tbl")
//	if err != nil {
//	    return err
//	}
//	defer fw.Close()
//	if err := fw.WriteGeneMap(m); err != nil {
//	    return err
//	}
//	return fw.Close()
//
// Coordinates in the model are zero-based half-open; the table is one-based,
// with reverse-strand features written high-to-low and truncated ends marked
// with "<" and ">".
//
// [annotation]: https://pkg.go.dev/github.com/matzehuels/featuretable/pkg/annotation
// [tbl]: https://pkg.go.dev/github.com/matzehuels/featuretable/pkg/tbl
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/featuretable/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/featuretable/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/featuretable/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/featuretable/pkg/observability
package pkg
