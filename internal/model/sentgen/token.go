package sentgen

import "strings"

// Token is a word or punctuation string as it appears in the corpus
type Token = string

// Tag is a part-of-speech category (Penn Treebank tags with the default tagger)
type Tag = string

// AnnotatedToken pairs a corpus token with its part-of-speech tag
type AnnotatedToken struct {
	Token Token `json:"token"`
	Tag   Tag   `json:"tag"`
}

// String returns the token in "token/TAG" form
func (at AnnotatedToken) String() string {
	return at.Token + "/" + at.Tag
}

// WordBigram keys the word trigram index. Tags are stripped so lookups only need words.
type WordBigram struct {
	First  Token
	Second Token
}

// TagBigram keys the tag trigram index
type TagBigram struct {
	First  Tag
	Second Tag
}

// Corpus is an annotated token sequence in corpus order
type Corpus []AnnotatedToken

// Tokens returns the token column of the corpus
func (c Corpus) Tokens() []Token {
	tokens := make([]Token, len(c))
	for i, at := range c {
		tokens[i] = at.Token
	}
	return tokens
}

// Sentence is the result of one accepted generation
type Sentence struct {
	ID       string  `json:"id,omitempty"`
	Tokens   []Token `json:"tokens"`
	Skeleton []Tag   `json:"skeleton"`
	Score    float64 `json:"score"`
	Attempts int     `json:"attempts"`
}

// Text joins the sentence tokens with single spaces
func (s *Sentence) Text() string {
	return strings.Join(s.Tokens, " ")
}
