// Package solexa decodes Solexa/Illumina _export.txt records into the
// canonical model of package align.
//
// An export record has 22 tab-separated columns: six read-coordinate
// columns (machine, run, lane, tile, x, y), index and read number,
// sequence, qualities, match chromosome, match contig, 1-based match
// position, match strand (F/R), match descriptor, two alignment
// scores, three partner columns, partner strand, and the chastity
// filter flag (Y/N). When the read did not align, the chromosome
// column (column 11) instead carries a code identifying the no-match
// reason, e.g. "NM" (no match) or "QC" (quality), or a
// colon-separated multi-match count.
package solexa

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/alignio/align"
	"github.com/pkg/errors"
)

// numFields is the column count of one export record.
const numFields = 22

// Alignment is one decoded Solexa-export record. NomatchCode is set
// only when the read did not align; a read that failed the chastity
// filter is never aligned.
type Alignment struct {
	align.Base

	PassedFilter bool
	NomatchCode  string
}

// nomatchCode reports whether the chromosome column carries a
// no-match reason instead of a chromosome name.
func nomatchCode(chrom string) bool {
	switch chrom {
	case "", "NM", "QC", "RM":
		return true
	}
	return strings.ContainsRune(chrom, ':') // multi-match counts like "1:2:0"
}

// ParseLine decodes one export record (without trailing newline).
// Violations return an error wrapping align.ErrMalformedRecord.
func ParseLine(line string) (*Alignment, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != numFields {
		return nil, errors.Wrapf(align.ErrMalformedRecord,
			"solexa: %d fields, want %d", len(fields), numFields)
	}
	seq := fields[8]
	if len(seq) == 0 {
		return nil, errors.Wrapf(align.ErrMalformedRecord, "solexa: empty sequence")
	}
	name := strings.Join(fields[:6], ":")
	read := align.Read{Name: name, Seq: []byte(seq), Qual: []byte(fields[9])}

	passed := fields[21] == "Y"
	chrom := fields[10]

	a := &Alignment{PassedFilter: passed}
	if !passed || nomatchCode(chrom) {
		// Filtered or unaligned: no interval. Keep the code the
		// aligner reported, or "QC" when chastity filtering alone is
		// what suppressed the alignment.
		a.Base = align.NewBase(read, nil, false)
		if nomatchCode(chrom) && chrom != "" {
			a.NomatchCode = chrom
		} else {
			a.NomatchCode = "QC"
		}
		return a, nil
	}

	pos, err := strconv.Atoi(fields[12])
	if err != nil || pos < 1 {
		return nil, errors.Wrapf(align.ErrMalformedRecord, "solexa: bad position %q", fields[12])
	}
	var strand align.Strand
	switch fields[13] {
	case "F":
		strand = align.Plus
	case "R":
		strand = align.Minus
	default:
		return nil, errors.Wrapf(align.ErrMalformedRecord, "solexa: bad strand %q", fields[13])
	}
	start := pos - 1 // export positions are 1-based
	iv := &align.Interval{Chrom: chrom, Start: start, End: start + len(seq), Strand: strand}
	a.Base = align.NewBase(read, iv, false)
	return a, nil
}

// A Reader streams alignments out of an export file. It implements
// align.Stream[*Alignment] and is not safe for concurrent use.
type Reader struct {
	b      *bufio.Scanner
	cur    *Alignment
	lineno int
	err    error
	done   bool
}

// NewReader returns a Reader consuming export records from r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 16*1024*1024)
	return &Reader{b: sc}
}

// Scan advances to the next record, reporting whether one is
// available.
func (r *Reader) Scan() bool {
	if r.err != nil || r.done {
		return false
	}
	for r.b.Scan() {
		r.lineno++
		line := r.b.Text()
		if len(line) == 0 {
			continue
		}
		a, err := ParseLine(line)
		if err != nil {
			r.err = errors.Wrapf(err, "line %d", r.lineno)
			return false
		}
		r.cur = a
		return true
	}
	r.done = true
	r.err = r.b.Err()
	return false
}

// Record returns the alignment read by the last successful Scan.
func (r *Reader) Record() *Alignment { return r.cur }

// Err returns the first error encountered, or nil at normal end of
// stream.
func (r *Reader) Err() error { return r.err }
