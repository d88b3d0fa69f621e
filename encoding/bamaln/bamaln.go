// Package bamaln adapts binary BAM input to the canonical alignment
// model: decoding the compressed container is delegated to
// github.com/grailbio/hts, and this package maps each decoded record
// onto the same *sam.Alignment the text parser produces, applying the
// same coordinate, strand, CIGAR and optional-field normalization.
package bamaln

import (
	"encoding/hex"
	"io"
	"strings"

	"github.com/grailbio/alignio/align"
	"github.com/grailbio/alignio/encoding/sam"
	"github.com/grailbio/hts/bam"
	htssam "github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

// FromRecord converts one decoded BAM record into the canonical SAM
// alignment model. Base qualities are re-encoded as Phred+33 text to
// match the text decoder's convention.
func FromRecord(rec *htssam.Record) (*sam.Alignment, error) {
	flags := uint16(rec.Flags)

	var qual []byte
	if len(rec.Qual) > 0 && rec.Qual[0] != 0xff {
		qual = make([]byte, len(rec.Qual))
		for i, q := range rec.Qual {
			qual[i] = q + 33
		}
	}
	read := align.Read{Name: rec.Name, Seq: rec.Seq.Expand(), Qual: qual}

	var (
		iv    *align.Interval
		cigar []align.CigarOp
		err   error
	)
	if flags&sam.FlagUnmapped == 0 {
		if rec.Ref == nil || rec.Pos < 0 {
			return nil, errors.Wrapf(align.ErrMalformedRecord,
				"bam: mapped record %q without a reference", rec.Name)
		}
		strand := align.Plus
		if flags&sam.FlagReverse != 0 {
			strand = align.Minus
		}
		chrom := rec.Ref.Name()
		// BAM positions are already 0-based.
		cigar, err = align.DecodeCigar(rec.Cigar.String(), rec.Pos, chrom, strand)
		if err != nil {
			return nil, errors.Wrapf(err, "bam: record %q", rec.Name)
		}
		end := rec.Pos + len(read.Seq)
		if len(cigar) > 0 {
			end = rec.Pos
			for _, op := range cigar {
				end += op.Ref.Len()
			}
		}
		iv = &align.Interval{Chrom: chrom, Start: rec.Pos, End: end, Strand: strand}
	}

	mateChrom, matePos := "", 0
	if flags&sam.FlagPaired != 0 && flags&sam.FlagMateUnmapped == 0 &&
		rec.MateRef != nil && rec.MatePos >= 0 {
		mateChrom = rec.MateRef.Name()
		matePos = rec.MatePos
	}

	var aux map[string]sam.AuxValue
	if len(rec.AuxFields) > 0 {
		aux = make(map[string]sam.AuxValue, len(rec.AuxFields))
		for _, f := range rec.AuxFields {
			tag, v, err := fromAux(f)
			if err != nil {
				return nil, errors.Wrapf(err, "bam: record %q", rec.Name)
			}
			aux[tag] = v
		}
	}
	return sam.New(read, iv, flags, int(rec.MapQ), cigar, mateChrom, matePos, rec.TempLen, aux), nil
}

// fromAux maps one binary aux field to the text model: all integer
// widths collapse to type i, float32 widens to f, and hex byte arrays
// are re-encoded as H strings.
func fromAux(f htssam.Aux) (string, sam.AuxValue, error) {
	tag := f.Tag().String()
	if f.Type() == 'A' {
		return tag, sam.AuxValue{Type: 'A', Value: f.Value().(byte)}, nil
	}
	switch v := f.Value().(type) {
	case int8:
		return tag, sam.AuxValue{Type: 'i', Value: int(v)}, nil
	case uint8:
		return tag, sam.AuxValue{Type: 'i', Value: int(v)}, nil
	case int16:
		return tag, sam.AuxValue{Type: 'i', Value: int(v)}, nil
	case uint16:
		return tag, sam.AuxValue{Type: 'i', Value: int(v)}, nil
	case int32:
		return tag, sam.AuxValue{Type: 'i', Value: int(v)}, nil
	case uint32:
		return tag, sam.AuxValue{Type: 'i', Value: int(v)}, nil
	case int:
		return tag, sam.AuxValue{Type: 'i', Value: v}, nil
	case float32:
		return tag, sam.AuxValue{Type: 'f', Value: float64(v)}, nil
	case string:
		typ := byte('Z')
		if f.Type() == 'H' {
			typ = 'H'
		}
		return tag, sam.AuxValue{Type: typ, Value: v}, nil
	case []byte:
		if f.Type() == 'H' {
			return tag, sam.AuxValue{Type: 'H', Value: strings.ToUpper(hex.EncodeToString(v))}, nil
		}
		return tag, auxArray(v, 'C'), nil
	case []int8:
		return tag, auxArray(v, 'c'), nil
	case []int16:
		return tag, auxArray(v, 's'), nil
	case []uint16:
		return tag, auxArray(v, 'S'), nil
	case []int32:
		return tag, auxArray(v, 'i'), nil
	case []uint32:
		return tag, auxArray(v, 'I'), nil
	case []float32:
		a := make([]float64, len(v))
		for i, e := range v {
			a[i] = float64(e)
		}
		return tag, sam.AuxValue{Type: 'B', Sub: 'f', Value: a}, nil
	}
	return "", sam.AuxValue{}, errors.Wrapf(align.ErrMalformedRecord,
		"unhandled aux field %s type %q", tag, f.Type())
}

func auxArray[E int8 | uint8 | int16 | uint16 | int32 | uint32](v []E, sub byte) sam.AuxValue {
	a := make([]int64, len(v))
	for i, e := range v {
		a[i] = int64(e)
	}
	return sam.AuxValue{Type: 'B', Sub: sub, Value: a}
}

// A Reader streams canonical alignments out of a BAM file. It
// implements align.Stream[*sam.Alignment] and is not safe for
// concurrent use.
type Reader struct {
	b    *bam.Reader
	cur  *sam.Alignment
	err  error
	done bool
}

// NewReader returns a Reader decoding BAM from r. rd is the
// decompression parallelism handed to the underlying BAM reader; 0
// selects its default.
func NewReader(r io.Reader, rd int) (*Reader, error) {
	b, err := bam.NewReader(r, rd)
	if err != nil {
		return nil, err
	}
	return &Reader{b: b}, nil
}

// Scan advances to the next record, reporting whether one is
// available.
func (r *Reader) Scan() bool {
	if r.err != nil || r.done {
		return false
	}
	rec, err := r.b.Read()
	if err == io.EOF {
		r.done = true
		return false
	}
	if err != nil {
		r.err = err
		return false
	}
	r.cur, r.err = FromRecord(rec)
	return r.err == nil
}

// Record returns the alignment read by the last successful Scan.
func (r *Reader) Record() *sam.Alignment { return r.cur }

// Err returns the first error encountered, or nil at normal end of
// stream.
func (r *Reader) Err() error { return r.err }

// Close releases the underlying BAM reader.
func (r *Reader) Close() error { return r.b.Close() }
