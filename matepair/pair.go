package matepair

import (
	"errors"

	"github.com/grailbio/alignio/align"
)

var (
	// ErrBufferOverflow is returned by BufferedPairer when holding one
	// more unmatched record would exceed the configured buffer bound.
	// It is fatal to the pairing operation: the caller must either
	// raise the bound or name-sort the input and use Pairer.
	ErrBufferOverflow = errors.New("mate buffer overflow")
	// ErrNotPairedEnd is returned when a record without paired-end
	// metadata reaches a pairing engine.
	ErrNotPairedEnd = errors.New("record is not paired-end")
	// ErrAmbiguousMate is returned for a record whose pair member is
	// unknown, or (in buffered mode) for a second record claiming a
	// slot that is already buffered for the same read.
	ErrAmbiguousMate = errors.New("ambiguous mate")
)

// Record is the alignment capability the pairing engines need:
// canonical identity plus which sequencing pass the record came from.
// *sam.Alignment implements it.
type Record interface {
	align.Alignment
	PairMember() align.PEWhich
}

// A Pair holds the two mates of one read. Either slot is nil when
// that mate was missing from the stream; never both.
type Pair[T Record] struct {
	First  T
	Second T
}

// singleton places rec in the slot its pair member selects.
func singleton[T Record](rec T) Pair[T] {
	if rec.PairMember() == align.SecondInPair {
		return Pair[T]{Second: rec}
	}
	return Pair[T]{First: rec}
}

// checkMember validates that rec can be paired at all.
func checkMember[T Record](rec T) error {
	if !rec.PairedEnd() || rec.PairMember() == align.NotPairedEnd {
		return wrapName(ErrNotPairedEnd, rec.Name())
	}
	if rec.PairMember() == align.UnknownMate {
		return wrapName(ErrAmbiguousMate, rec.Name())
	}
	return nil
}
