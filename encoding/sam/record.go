package sam

import "github.com/grailbio/alignio/align"

// FLAG bits, as defined by the SAM spec.
const (
	FlagPaired        uint16 = 0x0001 // template has multiple segments
	FlagProperPair    uint16 = 0x0002 // each segment properly aligned
	FlagUnmapped      uint16 = 0x0004 // segment unmapped
	FlagMateUnmapped  uint16 = 0x0008 // next segment unmapped
	FlagReverse       uint16 = 0x0010 // SEQ is reverse complemented
	FlagMateReverse   uint16 = 0x0020 // SEQ of next segment is reverse complemented
	FlagRead1         uint16 = 0x0040 // first segment in template
	FlagRead2         uint16 = 0x0080 // last segment in template
	FlagSecondary     uint16 = 0x0100 // secondary alignment
	FlagQCFail        uint16 = 0x0200 // not passing platform quality checks
	FlagDuplicate     uint16 = 0x0400 // PCR or optical duplicate
	FlagSupplementary uint16 = 0x0800 // supplementary alignment
)

// An AuxValue is the decoded value of one optional field. Value holds
// byte (type A), int (type i), float64 (type f), string (types Z and
// H), []int64 (type B with an integer subtype) or []float64 (type B
// subtype f). Sub is the array subtype character and is set only for
// type B.
type AuxValue struct {
	Type  byte
	Sub   byte
	Value interface{}
}

// MatePos is the alignment start of a record's mate: chromosome,
// 0-based position, and the strand the mate aligned to (opposite of
// the record's own strand for proper pairs).
type MatePos struct {
	Chrom  string
	Pos    int
	Strand align.Strand
}

// Alignment is one decoded SAM record. It extends the canonical core
// with SAM's mapping quality, decoded CIGAR, raw FLAG word, typed
// optional fields, and the paired-end metadata that only SAM formally
// carries. The paired-end fields (MateAligned, Which, ProperPair,
// Mate, TempLen) are meaningful only when PairedEnd() reports true.
type Alignment struct {
	align.Base

	Flags uint16
	MapQ  int
	Cigar []align.CigarOp
	Aux   map[string]AuxValue

	MateAligned bool
	Which       align.PEWhich
	ProperPair  bool
	Mate        *MatePos
	TempLen     int
}

// New assembles an Alignment from already decoded parts, deriving the
// paired-end metadata from the FLAG word. mateChrom is "" when the
// source carried no mate position; matePos is 0-based. Both the text
// parser and the BAM adapter build records through here so the
// normalization rules stay in one place.
func New(read align.Read, iv *align.Interval, flags uint16, mapQ int,
	cigar []align.CigarOp, mateChrom string, matePos int, tempLen int,
	aux map[string]AuxValue) *Alignment {
	a := &Alignment{
		Base:  align.NewBase(read, iv, flags&FlagPaired != 0),
		Flags: flags,
		MapQ:  mapQ,
		Cigar: cigar,
		Aux:   aux,
	}
	if flags&FlagPaired == 0 {
		return a
	}
	a.MateAligned = flags&FlagMateUnmapped == 0
	a.ProperPair = flags&FlagProperPair != 0
	switch flags & (FlagRead1 | FlagRead2) {
	case FlagRead1:
		a.Which = align.FirstInPair
	case FlagRead2:
		a.Which = align.SecondInPair
	default:
		a.Which = align.UnknownMate
	}
	if a.MateAligned && mateChrom != "" {
		strand := align.Plus
		if flags&FlagMateReverse != 0 {
			strand = align.Minus
		}
		a.Mate = &MatePos{Chrom: mateChrom, Pos: matePos, Strand: strand}
	}
	a.TempLen = tempLen
	return a
}

// NotPrimaryAlignment reports the secondary-alignment FLAG bit.
func (a *Alignment) NotPrimaryAlignment() bool { return a.Flags&FlagSecondary != 0 }

// FailedPlatformQC reports the platform quality-check FLAG bit.
func (a *Alignment) FailedPlatformQC() bool { return a.Flags&FlagQCFail != 0 }

// PCROrOpticalDuplicate reports the duplicate FLAG bit.
func (a *Alignment) PCROrOpticalDuplicate() bool { return a.Flags&FlagDuplicate != 0 }

// Supplementary reports the supplementary-alignment FLAG bit.
func (a *Alignment) Supplementary() bool { return a.Flags&FlagSupplementary != 0 }

// PairMember returns which sequencing pass the record came from. It
// is the hook the pairing engines key on.
func (a *Alignment) PairMember() align.PEWhich { return a.Which }
