package model

// Record is the parsed result of a single external fetch: an unstructured
// mapping from field name to value. Modules agree with their source client
// on the keys they use; everything in a Record must be JSON-serializable.
type Record map[string]any

// Str returns the string value for key, or "" if absent or not a string.
func (r Record) Str(key string) string {
	v, _ := r[key].(string)
	return v
}

// Float returns the float64 value for key, or 0 if absent or not a float64.
func (r Record) Float(key string) float64 {
	v, _ := r[key].(float64)
	return v
}
