package align

// A Read is a named sequence with per-base qualities, as reported by
// the sequencer. Seq holds uppercase IUPAC nucleotide codes; Qual
// holds the raw quality string bytes (typically Phred+33), one per
// base, and may be empty when the source format omits qualities.
type Read struct {
	Name string
	Seq  []byte
	Qual []byte
}

var revComp [256]byte

func init() {
	for i := range revComp {
		revComp[i] = 'N'
	}
	for _, p := range []struct{ base, comp byte }{
		{'A', 'T'}, {'C', 'G'}, {'G', 'C'}, {'T', 'A'},
		{'a', 't'}, {'c', 'g'}, {'g', 'c'}, {'t', 'a'},
		{'U', 'A'}, {'u', 'a'},
		{'M', 'K'}, {'K', 'M'}, {'R', 'Y'}, {'Y', 'R'},
		{'W', 'W'}, {'S', 'S'},
		{'B', 'V'}, {'V', 'B'}, {'D', 'H'}, {'H', 'D'},
		{'N', 'N'}, {'.', '.'}, {'-', '-'},
	} {
		revComp[p.base] = p.comp
	}
}

// ReverseComplement returns a new Read whose sequence is the reverse
// complement of r's and whose qualities are reversed to stay in base
// order. r is not modified.
func (r Read) ReverseComplement() Read {
	n := len(r.Seq)
	seq := make([]byte, n)
	for i := 0; i < n; i++ {
		seq[i] = revComp[r.Seq[n-1-i]]
	}
	var qual []byte
	if len(r.Qual) > 0 {
		qual = make([]byte, len(r.Qual))
		for i := range qual {
			qual[i] = r.Qual[len(r.Qual)-1-i]
		}
	}
	return Read{Name: r.Name, Seq: seq, Qual: qual}
}
