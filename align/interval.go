package align

import "fmt"

// Strand identifies which reference strand a read aligned to.
type Strand byte

const (
	// Plus is the forward reference strand.
	Plus Strand = '+'
	// Minus is the reverse reference strand.
	Minus Strand = '-'
	// NoStrand is used where strandedness is unknown or meaningless.
	NoStrand Strand = '.'
)

// String returns "+", "-" or ".".
func (s Strand) String() string { return string(s) }

// An Interval is a 0-based half-open reference span [Start, End) on
// chromosome Chrom. All decoders in this module produce intervals in
// this convention regardless of the source format's native one.
type Interval struct {
	Chrom  string
	Start  int
	End    int
	Strand Strand
}

// Len returns End - Start.
func (iv Interval) Len() int { return iv.End - iv.Start }

// String formats the interval as chrom:[start,end)/strand.
func (iv Interval) String() string {
	return fmt.Sprintf("%s:[%d,%d)/%s", iv.Chrom, iv.Start, iv.End, iv.Strand)
}
