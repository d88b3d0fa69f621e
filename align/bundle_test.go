package align_test

import (
	"testing"

	"github.com/grailbio/alignio/align"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAln struct {
	align.Base
}

func newTestAln(name string) *testAln {
	iv := &align.Interval{Chrom: "chr1", Start: 0, End: 1, Strand: align.Plus}
	return &testAln{align.NewBase(align.Read{Name: name, Seq: []byte("A")}, iv, false)}
}

type sliceStream[T align.Alignment] struct {
	recs []T
	pos  int
	err  error
}

func (s *sliceStream[T]) Scan() bool {
	if s.pos >= len(s.recs) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceStream[T]) Record() T  { return s.recs[s.pos-1] }
func (s *sliceStream[T]) Err() error { return s.err }

func TestBundler(t *testing.T) {
	src := &sliceStream[*testAln]{recs: []*testAln{
		newTestAln("a"), newTestAln("a"), newTestAln("a"),
		newTestAln("b"),
		newTestAln("c"), newTestAln("c"),
	}}
	b := align.NewBundler[*testAln](src)

	var got [][]string
	for b.Scan() {
		names := []string{}
		for _, rec := range b.Bundle() {
			names = append(names, rec.Name())
		}
		got = append(got, names)
	}
	require.NoError(t, b.Err())
	assert.Equal(t, [][]string{{"a", "a", "a"}, {"b"}, {"c", "c"}}, got)
}

func TestBundlerEmpty(t *testing.T) {
	b := align.NewBundler[*testAln](&sliceStream[*testAln]{})
	assert.False(t, b.Scan())
	assert.NoError(t, b.Err())
}

func TestBundlerSingleGroup(t *testing.T) {
	src := &sliceStream[*testAln]{recs: []*testAln{newTestAln("x"), newTestAln("x")}}
	b := align.NewBundler[*testAln](src)
	require.True(t, b.Scan())
	assert.Equal(t, 2, len(b.Bundle()))
	assert.False(t, b.Scan())
	assert.NoError(t, b.Err())
}
