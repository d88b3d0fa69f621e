package matepair

import (
	"github.com/grailbio/alignio/align"
	"github.com/pkg/errors"
)

func wrapName(err error, name string) error {
	return errors.Wrapf(err, "read %q", name)
}

// A Pairer joins mates that appear in adjacent stream positions,
// which name-sorted input guarantees. It holds only one read's
// records at a time.
//
// Within one read, first-pass records pair with second-pass records
// by arrival index: when a read multi-mapped, the i-th first-pass
// record pairs with the i-th second-pass record, and leftovers on
// either side come out as singletons.
type Pairer[T Record] struct {
	b         *align.Bundler[T]
	queue     []Pair[T]
	cur       Pair[T]
	unmatched int
	err       error
}

// NewPairer returns a Pairer reading from src.
func NewPairer[T Record](src align.Stream[T]) *Pairer[T] {
	return &Pairer[T]{b: align.NewBundler[T](src)}
}

// Scan advances to the next pair, reporting whether one is available.
func (p *Pairer[T]) Scan() bool {
	if p.err != nil {
		return false
	}
	for len(p.queue) == 0 {
		if !p.b.Scan() {
			p.err = p.b.Err()
			return false
		}
		if p.err = p.pairGroup(p.b.Bundle()); p.err != nil {
			return false
		}
	}
	p.cur = p.queue[0]
	p.queue = p.queue[1:]
	return true
}

// pairGroup partitions one read's records by pair member and queues
// the resulting pairs.
func (p *Pairer[T]) pairGroup(group []T) error {
	var firsts, seconds []T
	for _, rec := range group {
		if err := checkMember(rec); err != nil {
			return err
		}
		if rec.PairMember() == align.FirstInPair {
			firsts = append(firsts, rec)
		} else {
			seconds = append(seconds, rec)
		}
	}
	n := len(firsts)
	if len(seconds) < n {
		n = len(seconds)
	}
	for i := 0; i < n; i++ {
		p.queue = append(p.queue, Pair[T]{First: firsts[i], Second: seconds[i]})
	}
	for _, rec := range firsts[n:] {
		p.queue = append(p.queue, Pair[T]{First: rec})
		p.unmatched++
	}
	for _, rec := range seconds[n:] {
		p.queue = append(p.queue, Pair[T]{Second: rec})
		p.unmatched++
	}
	return nil
}

// Pair returns the pair produced by the last successful Scan.
func (p *Pairer[T]) Pair() Pair[T] { return p.cur }

// Err returns the first error encountered, or nil at normal end of
// stream.
func (p *Pairer[T]) Err() error { return p.err }

// Unmatched returns the running count of records emitted without a
// mate. A modest count is expected in real data; it is a diagnostic,
// not an error.
func (p *Pairer[T]) Unmatched() int { return p.unmatched }
