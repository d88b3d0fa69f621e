package sam

import (
	"strconv"
	"strings"

	"github.com/grailbio/alignio/align"
	"github.com/pkg/errors"
)

// numMandatoryFields is the count of positional SAM columns before the
// optional-field tail.
const numMandatoryFields = 11

// tokenize splits one SAM line into its mandatory positional fields
// and the (possibly empty) optional-field tail. It is a pure function;
// type validation of individual fields happens in ParseLine.
func tokenize(line string) (mandatory, optional []string, err error) {
	fields := strings.Split(line, "\t")
	if len(fields) < numMandatoryFields {
		return nil, nil, errors.Wrapf(align.ErrMalformedRecord,
			"sam: %d fields, want at least %d", len(fields), numMandatoryFields)
	}
	return fields[:numMandatoryFields], fields[numMandatoryFields:], nil
}

// ParseLine decodes one SAM text record (without trailing newline)
// into an Alignment. Header lines are not accepted here; Reader skips
// them. Field count or type violations return an error wrapping
// align.ErrMalformedRecord; an unknown CIGAR opcode returns an error
// wrapping align.ErrUnsupportedCigarOp.
func ParseLine(line string) (*Alignment, error) {
	fields, optional, err := tokenize(line)
	if err != nil {
		return nil, err
	}

	flags64, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return nil, errors.Wrapf(align.ErrMalformedRecord, "sam: bad FLAG %q", fields[1])
	}
	flags := uint16(flags64)
	pos, err := strconv.Atoi(fields[3])
	if err != nil || pos < 0 {
		return nil, errors.Wrapf(align.ErrMalformedRecord, "sam: bad POS %q", fields[3])
	}
	mapQ, err := strconv.Atoi(fields[4])
	if err != nil || mapQ < 0 {
		return nil, errors.Wrapf(align.ErrMalformedRecord, "sam: bad MAPQ %q", fields[4])
	}

	var seq, qual []byte
	if fields[9] != "*" {
		seq = []byte(fields[9])
	}
	if fields[10] != "*" {
		qual = []byte(fields[10])
	}
	if len(seq) > 0 && len(qual) > 0 && len(seq) != len(qual) {
		return nil, errors.Wrapf(align.ErrMalformedRecord,
			"sam: SEQ length %d != QUAL length %d", len(seq), len(qual))
	}
	read := align.Read{Name: fields[0], Seq: seq, Qual: qual}

	aligned := flags&FlagUnmapped == 0
	var (
		iv    *align.Interval
		cigar []align.CigarOp
	)
	if aligned {
		if fields[2] == "*" || pos == 0 {
			return nil, errors.Wrapf(align.ErrMalformedRecord,
				"sam: mapped record %q without RNAME/POS", fields[0])
		}
		strand := align.Plus
		if flags&FlagReverse != 0 {
			strand = align.Minus
		}
		start := pos - 1 // SAM positions are 1-based
		cigar, err = align.DecodeCigar(fields[5], start, fields[2], strand)
		if err != nil {
			return nil, err
		}
		end := start + len(seq) // fallback when CIGAR is "*"
		if len(cigar) > 0 {
			end = start
			for _, op := range cigar {
				end += op.Ref.Len()
			}
		}
		iv = &align.Interval{Chrom: fields[2], Start: start, End: end, Strand: strand}
	}

	mateChrom, matePos0 := "", 0
	tlen := 0
	if flags&FlagPaired != 0 {
		if fields[6] != "*" {
			matePos, err := strconv.Atoi(fields[7])
			if err != nil || matePos < 0 {
				return nil, errors.Wrapf(align.ErrMalformedRecord, "sam: bad PNEXT %q", fields[7])
			}
			if matePos > 0 {
				mateChrom = fields[6]
				if mateChrom == "=" {
					mateChrom = fields[2]
				}
				matePos0 = matePos - 1
			}
		}
		if tlen, err = strconv.Atoi(fields[8]); err != nil {
			return nil, errors.Wrapf(align.ErrMalformedRecord, "sam: bad TLEN %q", fields[8])
		}
	}

	var aux map[string]AuxValue
	if len(optional) > 0 {
		aux = make(map[string]AuxValue, len(optional))
		for _, field := range optional {
			tag, v, err := parseAux(field)
			if err != nil {
				return nil, err
			}
			aux[tag] = v // repeated tags overwrite: last wins
		}
	}
	return New(read, iv, flags, mapQ, cigar, mateChrom, matePos0, tlen, aux), nil
}
