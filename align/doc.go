// Package align defines the canonical in-memory representation of a
// short-read alignment record, shared by all of this module's format
// decoders (encoding/sam, encoding/bowtie, encoding/solexa,
// encoding/bamaln).
//
// Every decoder normalizes its source format into the same
// conventions: reference coordinates are 0-based half-open, strand is
// one of '+', '-', '.', and an unaligned record carries no interval at
// all. Downstream code (the bundler in this package, the pairing
// engines in package matepair) can therefore operate on any flavor of
// alignment through the Alignment interface without format-specific
// logic.
//
// All iteration in this module is pull-based: readers and transforms
// expose Scan/Record/Err in the style of bufio.Scanner, advance only
// when the consumer asks for the next item, and are not safe for
// concurrent use.
package align
