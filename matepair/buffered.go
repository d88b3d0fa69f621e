package matepair

import (
	"github.com/grailbio/alignio/align"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// DefaultMaxBufferSize is the buffer bound used when Opts leaves
// MaxBufferSize unset.
const DefaultMaxBufferSize = 3000000

// Opts configures a BufferedPairer.
type Opts struct {
	// MaxBufferSize bounds the number of records held while their
	// mates have not arrived yet. Values <= 0 select
	// DefaultMaxBufferSize.
	MaxBufferSize int
}

// A BufferedPairer joins mates regardless of their distance in the
// stream. The earlier mate of each read is held in a buffer keyed by
// read name; when the later mate arrives the completed pair is
// emitted immediately and the entry removed, so pairs come out in the
// order their second mate arrives. Exceeding the buffer bound fails
// the whole operation with ErrBufferOverflow. At end of stream, still
// buffered records are emitted as singletons in the order they were
// buffered.
//
// The buffered engine expects one record per mate: it is meant for
// primary alignments, and a second record claiming an already
// buffered slot fails with ErrAmbiguousMate.
type BufferedPairer[T Record] struct {
	src       align.Stream[T]
	max       int
	buf       map[string]T
	order     []string // names in buffer insertion order, drained at EOF
	cur       Pair[T]
	draining  bool
	unmatched int
	err       error
}

// NewBufferedPairer returns a BufferedPairer reading from src.
func NewBufferedPairer[T Record](src align.Stream[T], opts Opts) *BufferedPairer[T] {
	max := opts.MaxBufferSize
	if max <= 0 {
		max = DefaultMaxBufferSize
	}
	return &BufferedPairer[T]{src: src, max: max, buf: make(map[string]T)}
}

// Scan advances to the next pair, reporting whether one is available.
func (p *BufferedPairer[T]) Scan() bool {
	if p.err != nil {
		return false
	}
	for !p.draining {
		if !p.src.Scan() {
			if p.err = p.src.Err(); p.err != nil {
				return false
			}
			p.draining = true
			if len(p.buf) > 0 {
				log.Debug.Printf("matepair: %d records without a mate at end of stream", len(p.buf))
			}
			break
		}
		rec := p.src.Record()
		if p.err = checkMember(rec); p.err != nil {
			return false
		}
		name := rec.Name()
		mate, ok := p.buf[name]
		if !ok {
			if len(p.buf) >= p.max {
				p.err = errors.Wrapf(ErrBufferOverflow,
					"%d unmatched records buffered (raise MaxBufferSize or name-sort the input)", p.max)
				return false
			}
			p.buf[name] = rec
			p.order = append(p.order, name)
			continue
		}
		if mate.PairMember() == rec.PairMember() {
			p.err = wrapName(ErrAmbiguousMate, name)
			return false
		}
		delete(p.buf, name)
		if rec.PairMember() == align.FirstInPair {
			p.cur = Pair[T]{First: rec, Second: mate}
		} else {
			p.cur = Pair[T]{First: mate, Second: rec}
		}
		return true
	}
	// Drain leftovers as singletons, in buffer insertion order.
	for len(p.order) > 0 {
		name := p.order[0]
		p.order = p.order[1:]
		rec, ok := p.buf[name]
		if !ok {
			continue // already emitted as part of a pair
		}
		delete(p.buf, name)
		p.cur = singleton(rec)
		p.unmatched++
		return true
	}
	return false
}

// Pair returns the pair produced by the last successful Scan.
func (p *BufferedPairer[T]) Pair() Pair[T] { return p.cur }

// Err returns the first error encountered, or nil at normal end of
// stream.
func (p *BufferedPairer[T]) Err() error { return p.err }

// Unmatched returns the count of records emitted without a mate
// during the end-of-stream drain.
func (p *BufferedPairer[T]) Unmatched() int { return p.unmatched }
