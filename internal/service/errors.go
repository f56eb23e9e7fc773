package service

import "errors"

var (
	// ErrCorpusNotFound is returned when no corpus is loaded under the requested name
	ErrCorpusNotFound = errors.New("corpus not found")
	// ErrNoReflection is returned when a sentence contains no reflectable word
	ErrNoReflection = errors.New("no reflectable word in sentence")
	// ErrNoBaseVerb is returned when a sentence contains no VB-tagged token
	ErrNoBaseVerb = errors.New("no base-form verb in sentence")
	// ErrInvalidSeed is returned when a seed word is given without its tag, or the reverse
	ErrInvalidSeed = errors.New("seed word and seed tag must be given together")
)
