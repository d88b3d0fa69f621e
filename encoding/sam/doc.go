// Package sam decodes and re-encodes SAM-format text alignment
// records into the canonical model of package align.
//
// The decoder normalizes SAM's 1-based leftmost positions into
// 0-based half-open intervals, expands the FLAG bitmask into named
// accessors, decodes the CIGAR string into situated operations, and
// parses the optional TAG:TYPE:VALUE tail into a typed map (repeated
// tags overwrite, last wins). Render is the inverse: re-parsing a
// rendered line yields a semantically equal record, though the
// textual order of optional fields is not preserved.
package sam
