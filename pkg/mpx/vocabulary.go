package mpx

import "sort"

// vocabulary maps the exact strings a device renders to the closed set of
// values they stand for. Lookups never trim, fold case or match prefixes.
type vocabulary[T comparable] struct {
	name   string
	values map[string]T
}

func newVocabulary[T comparable](name string, values map[string]T) vocabulary[T] {
	return vocabulary[T]{name: name, values: values}
}

func (v vocabulary[T]) decode(raw string) (T, error) {
	if t, ok := v.values[raw]; ok {
		return t, nil
	}
	var zero T
	return zero, unrecognized(v.name, raw)
}

// encode returns the vendor string for t, the inverse of decode.
func (v vocabulary[T]) encode(t T) (string, bool) {
	for raw, value := range v.values {
		if value == t {
			return raw, true
		}
	}
	return "", false
}

// words returns the known vendor strings in sorted order.
func (v vocabulary[T]) words() []string {
	words := make([]string, 0, len(v.values))
	for raw := range v.values {
		words = append(words, raw)
	}
	sort.Strings(words)
	return words
}
