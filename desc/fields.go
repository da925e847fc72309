package desc

import "strings"

// Fields is an insertion-ordered mapping of attribute keys to values.
// Keys keep the position of their first occurrence; setting an existing
// key overwrites its value in place. The empty key is never stored.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields returns an empty Fields.
func NewFields() *Fields {
	return &Fields{values: make(map[string]string)}
}

// Set stores value under key, preserving the key's original position
// when it already exists. Empty keys are ignored.
func (f *Fields) Set(key, value string) {
	if key == "" {
		return
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value for key, or the empty string when absent.
func (f *Fields) Get(key string) string {
	return f.values[key]
}

// Lookup returns the value for key and whether it is present.
func (f *Fields) Lookup(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	keys := make([]string, len(f.keys))
	copy(keys, f.keys)
	return keys
}

// Len returns the number of stored keys.
func (f *Fields) Len() int {
	return len(f.keys)
}

// Equal reports whether two Fields hold the same keys in the same
// order with the same values.
func (f *Fields) Equal(other *Fields) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.Len() != other.Len() {
		return false
	}
	for i, k := range f.keys {
		if other.keys[i] != k || other.values[k] != f.values[k] {
			return false
		}
	}
	return true
}

// String renders the fields as key=value pairs in insertion order.
func (f *Fields) String() string {
	var sb strings.Builder
	for i, k := range f.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(f.values[k])
	}
	return sb.String()
}
