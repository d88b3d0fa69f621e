package solexa

import (
	"strings"
	"testing"

	"github.com/grailbio/alignio/align"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exportLine builds a 22-column export record around the fields the
// parser cares about.
func exportLine(seq, qual, chrom, pos, strand, filter string) string {
	fields := make([]string, 22)
	copy(fields, []string{"HWI-EAS225", "3", "1", "2", "751", "675", "", "1"})
	fields[8] = seq
	fields[9] = qual
	fields[10] = chrom
	fields[12] = pos
	fields[13] = strand
	fields[21] = filter
	return strings.Join(fields, "\t")
}

func TestParseAligned(t *testing.T) {
	a, err := ParseLine(exportLine("ACGTACGT", "IIIIIIII", "chr7", "1000", "F", "Y"))
	require.NoError(t, err)
	assert.Equal(t, "HWI-EAS225:3:1:2:751:675", a.Name())
	assert.True(t, a.PassedFilter)
	assert.True(t, a.Aligned())
	assert.Equal(t, align.Interval{Chrom: "chr7", Start: 999, End: 1007, Strand: align.Plus}, *a.Interval())
	assert.Equal(t, "", a.NomatchCode)
	assert.False(t, a.PairedEnd())
}

func TestParseReverseStrand(t *testing.T) {
	a, err := ParseLine(exportLine("AACCGGTT", "IIIIIIII", "chr7", "50", "R", "Y"))
	require.NoError(t, err)
	assert.Equal(t, align.Minus, a.Interval().Strand)
	assert.Equal(t, "AACCGGTT", string(a.ReadAsAligned().Seq))
	assert.Equal(t, "AACCGGTT", string(a.Read().Seq)) // palindromic revcomp
}

func TestParseNoMatch(t *testing.T) {
	for _, code := range []string{"NM", "QC", "RM", "1:2:0"} {
		a, err := ParseLine(exportLine("ACGT", "IIII", code, "", "", "Y"))
		require.NoError(t, err, "code %q", code)
		assert.False(t, a.Aligned())
		assert.Nil(t, a.Interval())
		assert.True(t, a.PassedFilter)
		assert.Equal(t, code, a.NomatchCode)
	}
}

func TestParseFailedFilter(t *testing.T) {
	// A read failing the chastity filter is never aligned, even when
	// the aligner still reported coordinates for it.
	a, err := ParseLine(exportLine("ACGT", "IIII", "chr7", "1000", "F", "N"))
	require.NoError(t, err)
	assert.False(t, a.PassedFilter)
	assert.False(t, a.Aligned())
	assert.Equal(t, "QC", a.NomatchCode)
}

func TestParseErrors(t *testing.T) {
	for _, line := range []string{
		"only\tthree\tfields",
		exportLine("", "IIII", "chr7", "1000", "F", "Y"),     // empty sequence
		exportLine("ACGT", "IIII", "chr7", "zero", "F", "Y"), // bad position
		exportLine("ACGT", "IIII", "chr7", "0", "F", "Y"),    // positions are 1-based
		exportLine("ACGT", "IIII", "chr7", "1000", "?", "Y"),
	} {
		_, err := ParseLine(line)
		require.Error(t, err, "line %q", line)
		assert.Equal(t, align.ErrMalformedRecord, errors.Cause(err), "line %q", line)
	}
}

func TestReader(t *testing.T) {
	in := exportLine("ACGT", "IIII", "chr1", "10", "F", "Y") + "\n" +
		exportLine("ACGT", "IIII", "NM", "", "", "Y") + "\n"
	r := NewReader(strings.NewReader(in))
	require.True(t, r.Scan())
	assert.True(t, r.Record().Aligned())
	require.True(t, r.Scan())
	assert.False(t, r.Record().Aligned())
	assert.Equal(t, "NM", r.Record().NomatchCode)
	assert.False(t, r.Scan())
	require.NoError(t, r.Err())
}
