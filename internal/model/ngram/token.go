package ngram

import "strings"

// NGram represents an n-gram (sequence of n tokens)
type NGram []string

// String returns the n-gram as a space-separated string
func (ng NGram) String() string {
	return strings.Join(ng, " ")
}

// Context returns the context (all tokens except the last one)
func (ng NGram) Context() NGram {
	if len(ng) <= 1 {
		return NGram{}
	}
	return ng[:len(ng)-1]
}

// LastToken returns the last token in the n-gram
func (ng NGram) LastToken() string {
	if len(ng) == 0 {
		return ""
	}
	return ng[len(ng)-1]
}
