package sam

import (
	"bufio"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// A Reader streams alignments out of SAM text. Header lines ("@"
// prefixed) are collected, not parsed. Reader implements
// align.Stream[*Alignment]; it is not safe for concurrent use.
type Reader struct {
	b      *bufio.Scanner
	cur    *Alignment
	header []string
	lineno int
	err    error
	done   bool
}

// NewReader returns a Reader consuming SAM text from r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 16*1024*1024) // long reads can exceed the default line limit
	return &Reader{b: sc}
}

// Scan advances to the next alignment record, reporting whether one
// is available. A malformed record stops the stream; Err returns the
// failure.
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
		if line[0] == '@' {
			r.header = append(r.header, line)
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

// Header returns the raw header lines seen so far, in file order.
func (r *Reader) Header() []string { return r.header }

// A PathReader is a Reader bound to an opened file. Close releases
// the file.
type PathReader struct {
	*Reader
	in file.File
	gz *gzip.Reader
}

// OpenPath opens a SAM text file, local or remote (any scheme
// grailbio/base/file supports), transparently decompressing gzip
// based on the path suffix.
func OpenPath(path string) (*PathReader, error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	reader := io.Reader(in.Reader(ctx))
	var gz *gzip.Reader
	if fileio.DetermineType(path) == fileio.Gzip {
		if gz, err = gzip.NewReader(reader); err != nil {
			_ = in.Close(ctx)
			return nil, err
		}
		reader = gz
	}
	return &PathReader{Reader: NewReader(reader), in: in, gz: gz}, nil
}

// Close releases the underlying file.
func (r *PathReader) Close() error {
	var err error
	if r.gz != nil {
		err = r.gz.Close()
	}
	if cerr := r.in.Close(vcontext.Background()); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
