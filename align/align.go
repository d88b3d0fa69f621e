package align

import "errors"

var (
	// ErrMalformedRecord is returned (wrapped with context) when a raw
	// record has the wrong field count or a field fails its type
	// constraint. Malformed records are surfaced to the caller, never
	// silently skipped.
	ErrMalformedRecord = errors.New("malformed alignment record")
	// ErrUnsupportedCigarOp is returned when a CIGAR string contains an
	// opcode outside M, I, D, N, S, H, P, =, X.
	ErrUnsupportedCigarOp = errors.New("unsupported CIGAR operation")
)

// PEWhich identifies which sequencing pass a paired-end record came
// from.
type PEWhich int

const (
	// NotPairedEnd marks records from unpaired sequencing.
	NotPairedEnd PEWhich = iota
	// FirstInPair marks first-pass mates.
	FirstInPair
	// SecondInPair marks second-pass mates.
	SecondInPair
	// UnknownMate marks paired-end records whose flags do not say
	// which pass they came from.
	UnknownMate
)

var peWhichNames = []string{"not_paired_end", "first", "second", "unknown"}

// String returns "first", "second", "unknown" or "not_paired_end".
func (w PEWhich) String() string {
	if w < NotPairedEnd || w > UnknownMate {
		return "invalid"
	}
	return peWhichNames[w]
}

// Alignment is the capability set shared by every alignment flavor in
// this module. Implementations are constructed once per raw record by
// their format decoder and are immutable apart from the memoized
// sequencing-orientation read.
type Alignment interface {
	// Name returns the read name.
	Name() string
	// Read returns the read in sequencing orientation: the reverse
	// complement of the stored read for minus-strand records,
	// otherwise the stored read itself.
	Read() Read
	// ReadAsAligned returns the read exactly as the source file stored
	// it (alignment orientation).
	ReadAsAligned() Read
	// Aligned reports whether the record aligned to the reference.
	Aligned() bool
	// Interval returns the reference span covered by the alignment, or
	// nil when Aligned is false.
	Interval() *Interval
	// PairedEnd reports whether the record came from paired-end
	// sequencing.
	PairedEnd() bool
}

// Base carries the canonical fields common to every alignment flavor
// and implements the Alignment interface. Format decoders embed it by
// value and add their format-specific payload around it.
type Base struct {
	asAligned Read
	iv        *Interval
	paired    bool

	// sequenced memoizes the reverse complement for minus-strand
	// records. It is built on first use and reused afterwards; the
	// mutation is not synchronized, so a Base must not be shared
	// across goroutines.
	sequenced *Read
}

// NewBase builds the canonical core of an alignment. iv must be nil
// exactly when the record did not align.
func NewBase(asAligned Read, iv *Interval, paired bool) Base {
	return Base{asAligned: asAligned, iv: iv, paired: paired}
}

// Name implements Alignment.
func (b *Base) Name() string { return b.asAligned.Name }

// ReadAsAligned implements Alignment.
func (b *Base) ReadAsAligned() Read { return b.asAligned }

// Read implements Alignment. For minus-strand records the reverse
// complement is computed on the first call only; later calls return
// the same memoized Read.
func (b *Base) Read() Read {
	if b.iv == nil || b.iv.Strand != Minus {
		return b.asAligned
	}
	if b.sequenced == nil {
		r := b.asAligned.ReverseComplement()
		b.sequenced = &r
	}
	return *b.sequenced
}

// Aligned implements Alignment.
func (b *Base) Aligned() bool { return b.iv != nil }

// Interval implements Alignment.
func (b *Base) Interval() *Interval { return b.iv }

// PairedEnd implements Alignment.
func (b *Base) PairedEnd() bool { return b.paired }

// Stream is the pull-based record stream produced by every reader and
// transform in this module. Scan advances to the next record and
// reports whether one is available; once it returns false it never
// returns true again, and Err distinguishes end of stream (nil) from
// failure. Record returns the current record and is valid only after
// a true Scan.
type Stream[T Alignment] interface {
	Scan() bool
	Record() T
	Err() error
}
