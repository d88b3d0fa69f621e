package sam

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Round-trip property: parse -> render -> parse yields a record equal
// to the first parse (aux-field order aside, which the map already
// normalizes).
func TestRenderRoundTrip(t *testing.T) {
	lines := []string{
		line1,
		line2,
		"r002\t4\t*\t0\t0\t*\t*\t0\t0\tACGT\tIIII",
		"r003\t77\t*\t0\t0\t*\t*\t0\t0\tACGT\tIIII",
		"r004\t16\tchr2\t1001\t60\t20M6I10M\t*\t0\t0\t" +
			strings.Repeat("A", 36) + "\t" + strings.Repeat("I", 36) +
			"\tXB:B:s,1,2,3\tXF:f:0.25\tXA:A:q",
		"r005\t163\tchrX\t500\t12\t5M\tchr9\t1000\t0\tACGTA\tIIIII",
		"r006\t0\tchr1\t77\t3\t*\t*\t0\t0\tACGTA\t*",
	}
	for _, line := range lines {
		a, err := ParseLine(line)
		require.NoError(t, err, "line %q", line)
		rendered := Render(a)
		b, err := ParseLine(rendered)
		require.NoError(t, err, "rendered %q", rendered)
		assert.Equal(t, a, b, "round trip of %q via %q", line, rendered)
	}
}

// Aux order in the input does not affect the rendered line.
func TestRenderAuxOrderIndependent(t *testing.T) {
	a, err := ParseLine("r\t0\tchr1\t1\t0\t2M\t*\t0\t0\tAC\tII\tZB:i:2\tAA:i:1")
	require.NoError(t, err)
	b, err := ParseLine("r\t0\tchr1\t1\t0\t2M\t*\t0\t0\tAC\tII\tAA:i:1\tZB:i:2")
	require.NoError(t, err)
	assert.Equal(t, Render(a), Render(b))
	assert.True(t, strings.HasSuffix(Render(a), "AA:i:1\tZB:i:2"))
}

func TestWriter(t *testing.T) {
	a, err := ParseLine(line1)
	require.NoError(t, err)
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(a))
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	require.True(t, r.Scan())
	assert.Equal(t, a.Name(), r.Record().Name())
	assert.Equal(t, a.Flags, r.Record().Flags)
	assert.False(t, r.Scan())
	require.NoError(t, r.Err())
}
