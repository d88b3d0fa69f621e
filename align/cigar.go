package align

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CigarOpType is a CIGAR opcode, stored as its SAM character code.
type CigarOpType byte

const (
	// CigarMatch is an alignment match (sequence match or mismatch).
	CigarMatch CigarOpType = 'M'
	// CigarInsertion is an insertion to the reference.
	CigarInsertion CigarOpType = 'I'
	// CigarDeletion is a deletion from the reference.
	CigarDeletion CigarOpType = 'D'
	// CigarSkipped is a skipped region of the reference (e.g. an intron).
	CigarSkipped CigarOpType = 'N'
	// CigarSoftClipped is clipped query sequence present in SEQ.
	CigarSoftClipped CigarOpType = 'S'
	// CigarHardClipped is clipped query sequence absent from SEQ.
	CigarHardClipped CigarOpType = 'H'
	// CigarPadded is a silent deletion from a padded reference.
	CigarPadded CigarOpType = 'P'
	// CigarEqual is a sequence match.
	CigarEqual CigarOpType = '='
	// CigarMismatch is a sequence mismatch.
	CigarMismatch CigarOpType = 'X'
)

// cigarOpNames maps each opcode to a human-readable name. The table is
// for diagnostics and formatting only; it carries no decoding logic.
var cigarOpNames = map[CigarOpType]string{
	CigarMatch:       "matched",
	CigarInsertion:   "inserted",
	CigarDeletion:    "deleted",
	CigarSkipped:     "skipped",
	CigarSoftClipped: "soft-clipped",
	CigarHardClipped: "hard-clipped",
	CigarPadded:      "padded",
	CigarEqual:       "sequence-matched",
	CigarMismatch:    "sequence-mismatched",
}

var (
	consumesRef   [256]bool
	consumesQuery [256]bool
)

func init() {
	for _, c := range "MDN=X" {
		consumesRef[c] = true
	}
	for _, c := range "MIS=X" {
		consumesQuery[c] = true
	}
}

// Valid reports whether t is one of the nine SAM opcodes.
func (t CigarOpType) Valid() bool {
	_, ok := cigarOpNames[t]
	return ok
}

// Name returns the human-readable name of the opcode ("matched",
// "inserted", ...), or "unknown" for an invalid opcode.
func (t CigarOpType) Name() string {
	if name, ok := cigarOpNames[t]; ok {
		return name
	}
	return "unknown"
}

// String returns the single-character SAM code.
func (t CigarOpType) String() string { return string(byte(t)) }

// ConsumesReference reports whether the opcode advances the reference
// coordinate (M, D, N, =, X).
func (t CigarOpType) ConsumesReference() bool { return consumesRef[t] }

// ConsumesQuery reports whether the opcode advances the query
// coordinate (M, I, S, =, X).
func (t CigarOpType) ConsumesQuery() bool { return consumesQuery[t] }

// A CigarOp is one decoded CIGAR operation situated on reference and
// query coordinates. Ref is zero-length when the opcode does not
// consume reference; QueryFrom equals QueryTo when the opcode does not
// consume query. Query coordinates are reported in the read's native
// left-to-right sequencing order regardless of strand.
type CigarOp struct {
	Type      CigarOpType
	Len       int
	Ref       Interval
	QueryFrom int
	QueryTo   int
}

// Check recomputes the consistency between Len, Type, and the spans,
// reporting rather than failing, so callers can validate externally
// constructed operations. A well-formed reference-consuming operation
// has Len == Ref.Len() and a zero-length query span (or matching query
// span for M/=/X); a non-reference-consuming one has a zero-length
// reference span and Len == QueryTo-QueryFrom.
func (op CigarOp) Check() bool {
	if !op.Type.Valid() || op.Len <= 0 {
		return false
	}
	if op.Type.ConsumesReference() {
		if op.Ref.Len() != op.Len {
			return false
		}
	} else if op.Ref.Len() != 0 {
		return false
	}
	if op.Type.ConsumesQuery() {
		if op.QueryTo-op.QueryFrom != op.Len {
			return false
		}
	} else if op.QueryTo != op.QueryFrom {
		return false
	}
	return true
}

// String formats the operation as e.g. "20M".
func (op CigarOp) String() string {
	return strconv.Itoa(op.Len) + op.Type.String()
}

// DecodeCigar expands the compact CIGAR string s into situated
// operations, anchored at 0-based reference position start on chrom.
// "*" (no CIGAR available) decodes to nil. An opcode outside the nine
// SAM codes fails with ErrUnsupportedCigarOp; a malformed run length
// fails with ErrMalformedRecord.
func DecodeCigar(s string, start int, chrom string, strand Strand) ([]CigarOp, error) {
	if s == "*" || s == "" {
		return nil, nil
	}
	ops := make([]CigarOp, 0, strings.Count(s, "M")+4)
	r, q := start, 0
	for i := 0; i < len(s); {
		n := 0
		j := i
		for ; j < len(s) && s[j] >= '0' && s[j] <= '9'; j++ {
			n = n*10 + int(s[j]-'0')
		}
		if j == i {
			return nil, errors.Wrapf(ErrMalformedRecord, "cigar %q: missing run length at offset %d", s, i)
		}
		if j == len(s) {
			return nil, errors.Wrapf(ErrMalformedRecord, "cigar %q: missing opcode at offset %d", s, i)
		}
		if n == 0 {
			return nil, errors.Wrapf(ErrMalformedRecord, "cigar %q: zero-length operation at offset %d", s, i)
		}
		t := CigarOpType(s[j])
		if !t.Valid() {
			return nil, errors.Wrapf(ErrUnsupportedCigarOp, "cigar %q: opcode %q", s, s[j])
		}
		op := CigarOp{Type: t, Len: n}
		r0, q0 := r, q
		if t.ConsumesReference() {
			r += n
		}
		if t.ConsumesQuery() {
			q += n
		}
		op.Ref = Interval{Chrom: chrom, Start: r0, End: r, Strand: strand}
		op.QueryFrom, op.QueryTo = q0, q
		ops = append(ops, op)
		i = j + 1
	}
	return ops, nil
}

// CigarString renders decoded operations back into compact form,
// returning "*" for an empty list.
func CigarString(ops []CigarOp) string {
	if len(ops) == 0 {
		return "*"
	}
	var b strings.Builder
	for _, op := range ops {
		b.WriteString(op.String())
	}
	return b.String()
}
