// Package annotation holds the in-memory genome annotation model that the
// feature table writer serializes.
//
// # Overview
//
// A [GeneMap] is an ordered list of [Gene] values. Each gene owns zero or
// more coding sequences ([CDS]) and each CDS is an ordered list of
// [Segment] values, the exon-like pieces of the transcript. Order is
// significant everywhere: genes, CDSes, segments, attribute keys and
// attribute values are all kept exactly as they were added.
//
// # Coordinates
//
// Positions are zero-based and half-open: a feature covering the first ten
// bases of a sequence has Start 0 and End 10. Conversion to the one-based
// closed convention of flat-file formats happens at serialization time.
//
// # Orientation and truncation
//
// [Strand] and [Truncation] are closed enumerations. The zero value of
// Strand is [StrandUnknown]; writers refuse to render a coordinate for a
// feature whose strand was never resolved.
//
// # Attributes
//
// [Attributes] is an ordered multimap rather than a Go map, because
// duplicate keys, repeated values and insertion order must survive a round
// trip:
//
//	var attrs annotation.Attributes
//	attrs.Add("product", "surface glycoprotein")
//	attrs.Add("note", "structural protein")
//	attrs.Add("note", "spike")
//
// # Loading
//
// The model is usually built by upstream annotation code. For command-line
// and server use this package can also decode it from JSON ([ReadJSON],
// [ReadResultsJSON]) and from GFF3 ([ReadGFF3]).
package annotation
