package sentgen

// Defaults used when a caller leaves generation options unset
const (
	DefaultThreshold      = 0.4
	DefaultSkeletonLength = 15
	DefaultMaxAttempts    = 1000
)

// DefaultSeed starts generation when the caller supplies none
var DefaultSeed = AnnotatedToken{Token: "want", Tag: "VB"}

// punctuation never appears as a word candidate. The bare "s" comes from possessive
// splitting ("nation ' s") in the reference corpora.
var punctuation = map[Token]struct{}{
	",":   {},
	".":   {},
	"!":   {},
	":":   {},
	";":   {},
	"?":   {},
	"--":  {},
	"-":   {},
	"\"":  {},
	"'":   {},
	"s":   {},
	"$":   {},
	",\"": {},
}

var terminators = map[Tag]struct{}{
	".": {},
	"!": {},
	"?": {},
}

// IsPunctuation reports whether token is in the fixed punctuation set
func IsPunctuation(token Token) bool {
	_, ok := punctuation[token]
	return ok
}

// IsTerminator reports whether tag ends a sentence skeleton
func IsTerminator(tag Tag) bool {
	_, ok := terminators[tag]
	return ok
}

// PunctuationSet returns a copy of the punctuation tokens
func PunctuationSet() []Token {
	set := make([]Token, 0, len(punctuation))
	for p := range punctuation {
		set = append(set, p)
	}
	return set
}
