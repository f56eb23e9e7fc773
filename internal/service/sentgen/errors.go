package sentgen

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCorpus is returned at construction when the corpus has fewer than three tokens
	ErrEmptyCorpus = errors.New("corpus needs at least 3 annotated tokens")

	// ErrSeedNotFound is returned when the seed has no non-punctuation followers
	ErrSeedNotFound = errors.New("seed word not found in corpus")

	// ErrSkeletonKeyMissing means the skeleton builder was handed a tag pair that never
	// occurs with a successor in the corpus
	ErrSkeletonKeyMissing = errors.New("tag bigram missing from tag index")

	// ErrInvalidSkeletonLength is returned for skeleton lengths below 1
	ErrInvalidSkeletonLength = errors.New("skeleton length must be at least 1")

	// ErrAttemptsExhausted is returned when no attempt reached the threshold
	ErrAttemptsExhausted = errors.New("generation attempts exhausted")
)

// AttemptsExhaustedError reports the best score seen before the attempt budget ran out
type AttemptsExhaustedError struct {
	Attempts  int
	Threshold float64
	BestScore float64
}

func (e *AttemptsExhaustedError) Error() string {
	return fmt.Sprintf("%v: %d attempts, best score %.3f below threshold %.3f",
		ErrAttemptsExhausted, e.Attempts, e.BestScore, e.Threshold)
}

func (e *AttemptsExhaustedError) Unwrap() error {
	return ErrAttemptsExhausted
}
