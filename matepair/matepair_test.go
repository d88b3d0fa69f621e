package matepair_test

import (
	"fmt"
	"testing"

	"github.com/grailbio/alignio/align"
	"github.com/grailbio/alignio/encoding/sam"
	"github.com/grailbio/alignio/matepair"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceStream struct {
	recs []*sam.Alignment
	pos  int
}

func (s *sliceStream) Scan() bool {
	if s.pos >= len(s.recs) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceStream) Record() *sam.Alignment { return s.recs[s.pos-1] }
func (s *sliceStream) Err() error             { return nil }

func rec(name string, which align.PEWhich) *sam.Alignment {
	iv := &align.Interval{Chrom: "chr1", Start: 0, End: 4, Strand: align.Plus}
	return &sam.Alignment{
		Base:  align.NewBase(align.Read{Name: name, Seq: []byte("ACGT")}, iv, true),
		Which: which,
	}
}

func first(name string) *sam.Alignment  { return rec(name, align.FirstInPair) }
func second(name string) *sam.Alignment { return rec(name, align.SecondInPair) }

func collect(t *testing.T, p interface {
	Scan() bool
	Pair() matepair.Pair[*sam.Alignment]
	Err() error
}) []matepair.Pair[*sam.Alignment] {
	t.Helper()
	var pairs []matepair.Pair[*sam.Alignment]
	for p.Scan() {
		pairs = append(pairs, p.Pair())
	}
	require.NoError(t, p.Err())
	return pairs
}

func TestPairerAdjacent(t *testing.T) {
	var recs []*sam.Alignment
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("read%d", i)
		recs = append(recs, first(name), second(name))
	}
	p := matepair.NewPairer[*sam.Alignment](&sliceStream{recs: recs})
	pairs := collect(t, p)
	require.Equal(t, 5, len(pairs))
	for i, pr := range pairs {
		require.NotNil(t, pr.First, "pair %d", i)
		require.NotNil(t, pr.Second, "pair %d", i)
		assert.Equal(t, pr.First.Name(), pr.Second.Name())
		assert.Equal(t, fmt.Sprintf("read%d", i), pr.First.Name())
	}
	assert.Equal(t, 0, p.Unmatched())
}

func TestPairerTrailingSingleton(t *testing.T) {
	recs := []*sam.Alignment{first("a"), second("a"), first("b")}
	p := matepair.NewPairer[*sam.Alignment](&sliceStream{recs: recs})
	pairs := collect(t, p)
	require.Equal(t, 2, len(pairs))
	assert.NotNil(t, pairs[0].First)
	assert.NotNil(t, pairs[0].Second)
	assert.NotNil(t, pairs[1].First)
	assert.Nil(t, pairs[1].Second)
	assert.Equal(t, 1, p.Unmatched())
}

func TestPairerMultiMapping(t *testing.T) {
	// Two first-pass and three second-pass alignments of one read:
	// pairing is by arrival index, the extra second-pass record comes
	// out alone.
	recs := []*sam.Alignment{
		first("m"), first("m"),
		second("m"), second("m"), second("m"),
	}
	p := matepair.NewPairer[*sam.Alignment](&sliceStream{recs: recs})
	pairs := collect(t, p)
	require.Equal(t, 3, len(pairs))
	assert.Equal(t, recs[0], pairs[0].First)
	assert.Equal(t, recs[2], pairs[0].Second)
	assert.Equal(t, recs[1], pairs[1].First)
	assert.Equal(t, recs[3], pairs[1].Second)
	assert.Nil(t, pairs[2].First)
	assert.Equal(t, recs[4], pairs[2].Second)
	assert.Equal(t, 1, p.Unmatched())
}

func TestPairerRejectsUnpaired(t *testing.T) {
	single := rec("s", align.NotPairedEnd)
	p := matepair.NewPairer[*sam.Alignment](&sliceStream{recs: []*sam.Alignment{single}})
	assert.False(t, p.Scan())
	require.Error(t, p.Err())
	assert.Equal(t, matepair.ErrNotPairedEnd, errors.Cause(p.Err()))
}

func TestPairerRejectsUnknownMate(t *testing.T) {
	p := matepair.NewPairer[*sam.Alignment](&sliceStream{recs: []*sam.Alignment{rec("u", align.UnknownMate)}})
	assert.False(t, p.Scan())
	assert.Equal(t, matepair.ErrAmbiguousMate, errors.Cause(p.Err()))
}

func TestBufferedPairerOutOfOrder(t *testing.T) {
	recs := []*sam.Alignment{
		first("a"), first("b"), second("b"), first("c"), second("a"), second("c"),
	}
	p := matepair.NewBufferedPairer[*sam.Alignment](&sliceStream{recs: recs}, matepair.Opts{MaxBufferSize: 10})
	pairs := collect(t, p)
	require.Equal(t, 3, len(pairs))
	// Pairs are emitted in the order the second mate arrives.
	assert.Equal(t, "b", pairs[0].First.Name())
	assert.Equal(t, "a", pairs[1].First.Name())
	assert.Equal(t, "c", pairs[2].First.Name())
	for _, pr := range pairs {
		require.NotNil(t, pr.First)
		require.NotNil(t, pr.Second)
	}
	assert.Equal(t, 0, p.Unmatched())
}

func TestBufferedPairerOverflow(t *testing.T) {
	// Three distinct reads buffered before any mate arrives, with room
	// for two: the third insert fails.
	recs := []*sam.Alignment{first("a"), first("b"), first("c")}
	p := matepair.NewBufferedPairer[*sam.Alignment](&sliceStream{recs: recs}, matepair.Opts{MaxBufferSize: 2})
	assert.False(t, p.Scan())
	require.Error(t, p.Err())
	assert.Equal(t, matepair.ErrBufferOverflow, errors.Cause(p.Err()))
}

func TestBufferedPairerDrain(t *testing.T) {
	recs := []*sam.Alignment{first("a"), second("b"), first("c"), second("c")}
	p := matepair.NewBufferedPairer[*sam.Alignment](&sliceStream{recs: recs}, matepair.Opts{MaxBufferSize: 10})
	pairs := collect(t, p)
	require.Equal(t, 3, len(pairs))
	// The completed pair comes first, then leftovers in the order they
	// were buffered.
	assert.Equal(t, "c", pairs[0].First.Name())
	assert.Equal(t, "c", pairs[0].Second.Name())
	assert.Equal(t, "a", pairs[1].First.Name())
	assert.Nil(t, pairs[1].Second)
	assert.Nil(t, pairs[2].First)
	assert.Equal(t, "b", pairs[2].Second.Name())
	assert.Equal(t, 2, p.Unmatched())
}

func TestBufferedPairerAmbiguous(t *testing.T) {
	recs := []*sam.Alignment{first("a"), first("a")}
	p := matepair.NewBufferedPairer[*sam.Alignment](&sliceStream{recs: recs}, matepair.Opts{MaxBufferSize: 10})
	assert.False(t, p.Scan())
	assert.Equal(t, matepair.ErrAmbiguousMate, errors.Cause(p.Err()))
}

// Every input record appears exactly once across the emitted pairs.
func TestPairersEmitEachRecordOnce(t *testing.T) {
	recs := []*sam.Alignment{
		first("a"), second("a"), first("b"), first("c"), second("c"), second("d"),
	}
	adjacency := matepair.NewPairer[*sam.Alignment](&sliceStream{recs: recs})
	buffered := matepair.NewBufferedPairer[*sam.Alignment](&sliceStream{recs: recs}, matepair.Opts{MaxBufferSize: 10})
	for _, pairs := range [][]matepair.Pair[*sam.Alignment]{collect(t, adjacency), collect(t, buffered)} {
		seen := map[*sam.Alignment]int{}
		total := 0
		for _, pr := range pairs {
			if pr.First != nil {
				seen[pr.First]++
				total++
			}
			if pr.Second != nil {
				seen[pr.Second]++
				total++
			}
		}
		assert.Equal(t, len(recs), total)
		for _, rec := range recs {
			assert.Equal(t, 1, seen[rec], "read %s", rec.Name())
		}
	}
}
