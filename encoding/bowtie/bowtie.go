// Package bowtie decodes the legacy Bowtie text output format into
// the canonical model of package align. Bowtie only reports reads
// that aligned, so every record is aligned; positions are already
// 0-based.
package bowtie

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/alignio/align"
	"github.com/pkg/errors"
)

// numFields is the column count of a Bowtie record: read name,
// strand, chromosome, 0-based position, sequence, qualities, reserved
// field, and the mismatch descriptor list. The last column is empty
// for exact matches but the tab separators are always present.
const numFields = 8

// Alignment is one decoded Bowtie record. Reserved carries the
// format's reserved column verbatim; Substitutions carries the
// comma-separated position:ref>alt mismatch list as an opaque string.
type Alignment struct {
	align.Base

	Reserved      string
	Substitutions string
}

// ParseLine decodes one Bowtie text record (without trailing
// newline). Violations return an error wrapping
// align.ErrMalformedRecord.
func ParseLine(line string) (*Alignment, error) {
	fields := strings.SplitN(line, "\t", numFields)
	if len(fields) < numFields-1 {
		return nil, errors.Wrapf(align.ErrMalformedRecord,
			"bowtie: %d fields, want at least %d", len(fields), numFields-1)
	}
	var strand align.Strand
	switch fields[1] {
	case "+":
		strand = align.Plus
	case "-":
		strand = align.Minus
	default:
		return nil, errors.Wrapf(align.ErrMalformedRecord, "bowtie: bad strand %q", fields[1])
	}
	pos, err := strconv.Atoi(fields[3])
	if err != nil || pos < 0 {
		return nil, errors.Wrapf(align.ErrMalformedRecord, "bowtie: bad position %q", fields[3])
	}
	seq := fields[4]
	if len(seq) == 0 {
		return nil, errors.Wrapf(align.ErrMalformedRecord, "bowtie: empty sequence")
	}
	read := align.Read{Name: fields[0], Seq: []byte(seq), Qual: []byte(fields[5])}
	iv := &align.Interval{Chrom: fields[2], Start: pos, End: pos + len(seq), Strand: strand}

	a := &Alignment{
		Base:     align.NewBase(read, iv, false),
		Reserved: fields[6],
	}
	if len(fields) == numFields {
		a.Substitutions = fields[7]
	}
	return a, nil
}

// A Reader streams alignments out of Bowtie text output. It
// implements align.Stream[*Alignment] and is not safe for concurrent
// use.
type Reader struct {
	b      *bufio.Scanner
	cur    *Alignment
	lineno int
	err    error
	done   bool
}

// NewReader returns a Reader consuming Bowtie text from r.
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
