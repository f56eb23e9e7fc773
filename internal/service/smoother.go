package service

import "fmt"

const (
	SmoothingAddK       = "addk"
	SmoothingWittenBell = "wittenbell"
)

// Smoother defines the interface for n-gram probability smoothing algorithms
type Smoother interface {
	// Smooth computes the smoothed probability for an n-gram
	// ngramCount: count of the full n-gram
	// contextCount: count of the context (n-1 gram)
	// backoffProb: probability from lower-order model
	// vocabularySize: size of the vocabulary
	Smooth(ngramCount, contextCount int64, backoffProb float64, vocabularySize int) float64

	// Name returns the name of the smoothing algorithm
	Name() string
}

// NewSmoother returns the smoother configured by name. k is only used by add-k.
func NewSmoother(name string, k float64) (Smoother, error) {
	switch name {
	case SmoothingAddK, "":
		return NewAddKSmoother(k), nil
	case SmoothingWittenBell:
		return NewWittenBellSmoother(), nil
	default:
		return nil, fmt.Errorf("unknown smoothing algorithm: %s", name)
	}
}

// AddKSmoother implements simple add-k (Laplace) smoothing
type AddKSmoother struct {
	k float64
}

// NewAddKSmoother creates a new add-k smoother
func NewAddKSmoother(k float64) *AddKSmoother {
	if k <= 0 {
		k = 1.0 // Default to Laplace smoothing
	}
	return &AddKSmoother{k: k}
}

func (s *AddKSmoother) Smooth(ngramCount, contextCount int64, backoffProb float64, vocabularySize int) float64 {
	if contextCount == 0 {
		return 1.0 / float64(vocabularySize)
	}
	numerator := float64(ngramCount) + s.k
	denominator := float64(contextCount) + (s.k * float64(vocabularySize))
	return numerator / denominator
}

func (s *AddKSmoother) Name() string {
	return "AddK"
}

// WittenBellSmoother interpolates the maximum likelihood estimate with the backoff
// probability, weighting the backoff by the vocabulary size
type WittenBellSmoother struct{}

// NewWittenBellSmoother creates a new Witten-Bell smoother
func NewWittenBellSmoother() *WittenBellSmoother {
	return &WittenBellSmoother{}
}

func (s *WittenBellSmoother) Smooth(ngramCount, contextCount int64, backoffProb float64, vocabularySize int) float64 {
	if contextCount == 0 {
		return 1.0 / float64(vocabularySize)
	}

	types := float64(vocabularySize)
	lambda := float64(contextCount) / (float64(contextCount) + types)
	mle := float64(ngramCount) / float64(contextCount)
	return lambda*mle + (1-lambda)*backoffProb
}

func (s *WittenBellSmoother) Name() string {
	return "WittenBell"
}
