package main

import (
	"flag"
	"strconv"
	"strings"

	"github.com/grailbio/alignio/align"
	"github.com/grailbio/alignio/encoding/bamaln"
	"github.com/grailbio/alignio/encoding/sam"
	"github.com/grailbio/alignio/matepair"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
)

var (
	format      = flag.String("format", "", "Input format, 'sam' or 'bam'; guessed from the path suffix when empty")
	mode        = flag.String("mode", "adjacent", "Pairing mode: 'adjacent' (name-sorted input) or 'buffered' (unsorted input)")
	maxBuffer   = flag.Int("max-buffer", matepair.DefaultMaxBufferSize, "Buffered mode: maximum number of reads held while waiting for their mates")
	summaryPath = flag.String("summary", "", "Write a TSV pairing summary to this path; empty logs the summary instead")
	outPath     = flag.String("out", "", "Write complete pairs as SAM text to this path; empty discards them")
)

// pairStream is the common face of the two pairing engines.
type pairStream interface {
	Scan() bool
	Pair() matepair.Pair[*sam.Alignment]
	Err() error
	Unmatched() int
}

type summary struct {
	records   int
	pairs     int
	complete  int
	unmatched int
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("exactly one input path expected, got %d; see -help", flag.NArg())
	}
	path := flag.Arg(0)

	src, cleanup := openInput(path)
	defer cleanup()

	var pairer pairStream
	switch *mode {
	case "adjacent":
		pairer = matepair.NewPairer[*sam.Alignment](src)
	case "buffered":
		pairer = matepair.NewBufferedPairer[*sam.Alignment](src, matepair.Opts{MaxBufferSize: *maxBuffer})
	default:
		log.Fatalf("unknown -mode %q", *mode)
	}

	ctx := vcontext.Background()
	var out *sam.Writer
	if *outPath != "" {
		dst, err := file.Create(ctx, *outPath)
		if err != nil {
			log.Fatalf("create %s: %v", *outPath, err)
		}
		defer func() {
			if err := dst.Close(ctx); err != nil {
				log.Fatalf("close %s: %v", *outPath, err)
			}
		}()
		out = sam.NewWriter(dst.Writer(ctx))
	}

	var s summary
	for pairer.Scan() {
		p := pairer.Pair()
		s.pairs++
		if p.First != nil {
			s.records++
		}
		if p.Second != nil {
			s.records++
		}
		if p.First != nil && p.Second != nil {
			s.complete++
			if out != nil {
				if err := out.Write(p.First); err != nil {
					log.Fatalf("write %s: %v", *outPath, err)
				}
				if err := out.Write(p.Second); err != nil {
					log.Fatalf("write %s: %v", *outPath, err)
				}
			}
		}
	}
	if err := pairer.Err(); err != nil {
		log.Fatalf("pairing %s: %v", path, err)
	}
	if out != nil {
		if err := out.Flush(); err != nil {
			log.Fatalf("flush %s: %v", *outPath, err)
		}
	}
	s.unmatched = pairer.Unmatched()

	if *summaryPath == "" {
		log.Printf("%s: %d records, %d pairs (%d complete), %d unmatched mates",
			path, s.records, s.pairs, s.complete, s.unmatched)
		return
	}
	if err := writeSummary(*summaryPath, &s); err != nil {
		log.Fatalf("summary %s: %v", *summaryPath, err)
	}
}

// openInput opens path as a stream of canonical SAM alignments,
// choosing the decoder from -format or the path suffix.
func openInput(path string) (align.Stream[*sam.Alignment], func()) {
	f := *format
	if f == "" {
		if strings.HasSuffix(path, ".bam") {
			f = "bam"
		} else {
			f = "sam"
		}
	}
	switch f {
	case "sam":
		r, err := sam.OpenPath(path)
		if err != nil {
			log.Fatalf("open %s: %v", path, err)
		}
		return r, func() {
			if err := r.Close(); err != nil {
				log.Error.Printf("close %s: %v", path, err)
			}
		}
	case "bam":
		ctx := vcontext.Background()
		in, err := file.Open(ctx, path)
		if err != nil {
			log.Fatalf("open %s: %v", path, err)
		}
		r, err := bamaln.NewReader(in.Reader(ctx), 0)
		if err != nil {
			log.Fatalf("open %s: %v", path, err)
		}
		return r, func() {
			if err := r.Close(); err != nil {
				log.Error.Printf("close %s: %v", path, err)
			}
			if err := in.Close(ctx); err != nil {
				log.Error.Printf("close %s: %v", path, err)
			}
		}
	}
	log.Fatalf("unknown -format %q", f)
	return nil, nil
}

// writeSummary emits one metric per TSV row.
func writeSummary(path string, s *summary) error {
	ctx := vcontext.Background()
	dst, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	w := tsv.NewWriter(dst.Writer(ctx))
	for _, row := range []struct {
		metric string
		value  int
	}{
		{"records", s.records},
		{"pairs", s.pairs},
		{"complete_pairs", s.complete},
		{"unmatched_mates", s.unmatched},
	} {
		w.WriteString(row.metric)
		w.WriteString(strconv.Itoa(row.value))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return dst.Close(ctx)
}
