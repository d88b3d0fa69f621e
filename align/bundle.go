package align

// A Bundler groups consecutive records with the same read name into
// one bundle, in arrival order. It assumes the source stream already
// clusters all records for one read back-to-back (true of Bowtie
// output, or of SAM sorted by query name); only the current group is
// held in memory.
//
// Bundler is itself a pull-based transform: Scan advances to the next
// completed bundle, Bundle returns it, and Err reports a source
// failure after Scan returns false.
type Bundler[T Alignment] struct {
	src     Stream[T]
	cur     []T
	pending []T // first record of the next group, already pulled
	done    bool
	err     error
}

// NewBundler returns a Bundler reading from src.
func NewBundler[T Alignment](src Stream[T]) *Bundler[T] {
	return &Bundler[T]{src: src}
}

// Scan advances to the next bundle, reporting whether one is
// available.
func (b *Bundler[T]) Scan() bool {
	if b.err != nil || b.done {
		return false
	}
	b.cur = b.pending
	b.pending = nil
	for b.src.Scan() {
		rec := b.src.Record()
		if len(b.cur) > 0 && rec.Name() != b.cur[0].Name() {
			b.pending = []T{rec}
			return true
		}
		b.cur = append(b.cur, rec)
	}
	b.done = true
	if b.err = b.src.Err(); b.err != nil {
		return false
	}
	return len(b.cur) > 0
}

// Bundle returns the current bundle. It is valid only after a true
// Scan and is overwritten by the next Scan.
func (b *Bundler[T]) Bundle() []T { return b.cur }

// Err returns the first error encountered by the source stream, or
// nil if the stream ended normally.
func (b *Bundler[T]) Err() error { return b.err }
