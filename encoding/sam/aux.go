package sam

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/alignio/align"
	"github.com/pkg/errors"
)

// parseAux decodes one TAG:TYPE:VALUE optional field.
func parseAux(field string) (string, AuxValue, error) {
	if len(field) < 5 || field[2] != ':' || field[4] != ':' {
		return "", AuxValue{}, errors.Wrapf(align.ErrMalformedRecord,
			"sam: bad optional field %q", field)
	}
	tag, typ, val := field[:2], field[3], field[5:]
	switch typ {
	case 'A':
		if len(val) != 1 {
			return "", AuxValue{}, errors.Wrapf(align.ErrMalformedRecord,
				"sam: tag %s: type A wants one character, got %q", tag, val)
		}
		return tag, AuxValue{Type: 'A', Value: val[0]}, nil
	case 'i':
		n, err := strconv.Atoi(val)
		if err != nil {
			return "", AuxValue{}, errors.Wrapf(align.ErrMalformedRecord,
				"sam: tag %s: bad integer %q", tag, val)
		}
		return tag, AuxValue{Type: 'i', Value: n}, nil
	case 'f':
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return "", AuxValue{}, errors.Wrapf(align.ErrMalformedRecord,
				"sam: tag %s: bad float %q", tag, val)
		}
		return tag, AuxValue{Type: 'f', Value: f}, nil
	case 'Z', 'H':
		return tag, AuxValue{Type: typ, Value: val}, nil
	case 'B':
		return parseAuxArray(tag, val)
	}
	return "", AuxValue{}, errors.Wrapf(align.ErrMalformedRecord,
		"sam: tag %s: unknown type %q", tag, typ)
}

func parseAuxArray(tag, val string) (string, AuxValue, error) {
	if len(val) < 1 {
		return "", AuxValue{}, errors.Wrapf(align.ErrMalformedRecord,
			"sam: tag %s: empty B value", tag)
	}
	sub := val[0]
	var elems []string
	if len(val) > 1 {
		if val[1] != ',' {
			return "", AuxValue{}, errors.Wrapf(align.ErrMalformedRecord,
				"sam: tag %s: bad B value %q", tag, val)
		}
		elems = strings.Split(val[2:], ",")
	}
	switch sub {
	case 'c', 'C', 's', 'S', 'i', 'I':
		a := make([]int64, len(elems))
		for i, e := range elems {
			n, err := strconv.ParseInt(e, 10, 64)
			if err != nil {
				return "", AuxValue{}, errors.Wrapf(align.ErrMalformedRecord,
					"sam: tag %s: bad B element %q", tag, e)
			}
			a[i] = n
		}
		return tag, AuxValue{Type: 'B', Sub: sub, Value: a}, nil
	case 'f':
		a := make([]float64, len(elems))
		for i, e := range elems {
			f, err := strconv.ParseFloat(e, 64)
			if err != nil {
				return "", AuxValue{}, errors.Wrapf(align.ErrMalformedRecord,
					"sam: tag %s: bad B element %q", tag, e)
			}
			a[i] = f
		}
		return tag, AuxValue{Type: 'B', Sub: 'f', Value: a}, nil
	}
	return "", AuxValue{}, errors.Wrapf(align.ErrMalformedRecord,
		"sam: tag %s: unknown B subtype %q", tag, sub)
}

// formatAux renders one optional field back into TAG:TYPE:VALUE form.
func formatAux(tag string, v AuxValue) string {
	var b strings.Builder
	b.WriteString(tag)
	b.WriteByte(':')
	b.WriteByte(v.Type)
	b.WriteByte(':')
	switch v.Type {
	case 'A':
		b.WriteByte(v.Value.(byte))
	case 'i':
		b.WriteString(strconv.Itoa(v.Value.(int)))
	case 'f':
		b.WriteString(strconv.FormatFloat(v.Value.(float64), 'g', -1, 64))
	case 'Z', 'H':
		b.WriteString(v.Value.(string))
	case 'B':
		b.WriteByte(v.Sub)
		switch a := v.Value.(type) {
		case []int64:
			for _, n := range a {
				fmt.Fprintf(&b, ",%d", n)
			}
		case []float64:
			for _, f := range a {
				b.WriteByte(',')
				b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			}
		}
	}
	return b.String()
}

// sortedTags returns the record's aux tags in lexical order, for
// deterministic rendering.
func sortedTags(aux map[string]AuxValue) []string {
	tags := make([]string, 0, len(aux))
	for tag := range aux {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
