package sam

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/alignio/align"
)

// Render encodes a into one SAM text line, without trailing newline.
// Re-parsing the rendered line yields a record semantically equal to
// a: same flags, interval, cigar and optional-field set. Optional
// fields are written in lexical tag order, which may differ from the
// order in the source file.
func Render(a *Alignment) string {
	var b strings.Builder
	read := a.ReadAsAligned()
	b.WriteString(read.Name)
	b.WriteByte('\t')
	b.WriteString(strconv.FormatUint(uint64(a.Flags), 10))
	b.WriteByte('\t')

	chrom := "*"
	pos := 0
	if iv := a.Interval(); iv != nil {
		chrom = iv.Chrom
		pos = iv.Start + 1
	}
	b.WriteString(chrom)
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(pos))
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(a.MapQ))
	b.WriteByte('\t')
	b.WriteString(align.CigarString(a.Cigar))
	b.WriteByte('\t')

	mateChrom, matePos := "*", 0
	if a.Mate != nil {
		mateChrom = a.Mate.Chrom
		if mateChrom == chrom && chrom != "*" {
			mateChrom = "="
		}
		matePos = a.Mate.Pos + 1
	}
	b.WriteString(mateChrom)
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(matePos))
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(a.TempLen))
	b.WriteByte('\t')
	if len(read.Seq) == 0 {
		b.WriteByte('*')
	} else {
		b.Write(read.Seq)
	}
	b.WriteByte('\t')
	if len(read.Qual) == 0 {
		b.WriteByte('*')
	} else {
		b.Write(read.Qual)
	}
	for _, tag := range sortedTags(a.Aux) {
		b.WriteByte('\t')
		b.WriteString(formatAux(tag, a.Aux[tag]))
	}
	return b.String()
}

// A Writer renders alignments to w, one SAM line per record.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter returns a Writer emitting SAM text to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write renders one record. Once a write fails, later calls return
// the same error.
func (w *Writer) Write(a *Alignment) error {
	if w.err != nil {
		return w.err
	}
	if _, err := w.w.WriteString(Render(a)); err != nil {
		w.err = err
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		w.err = err
	}
	return w.err
}

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}
