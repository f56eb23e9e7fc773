package model

import "sentgen/internal/model/sentgen"

type GenerateRequest struct {
	Corpus         string   `json:"corpus" binding:"required"`
	SeedWord       string   `json:"seed_word,omitempty"`
	SeedTag        string   `json:"seed_tag,omitempty"`
	Threshold      *float64 `json:"threshold,omitempty"`
	SkeletonLength int      `json:"skeleton_length,omitempty"`
	MaxAttempts    int      `json:"max_attempts,omitempty"`
	RandomSeed     *uint64  `json:"random_seed,omitempty"`
}

type GenerateResponse struct {
	ID         string                 `json:"id"`
	Corpus     string                 `json:"corpus"`
	Seed       sentgen.AnnotatedToken `json:"seed"`
	Text       string                 `json:"text"`
	Tokens     []string               `json:"tokens"`
	Skeleton   []string               `json:"skeleton"`
	Score      float64                `json:"score"`
	Attempts   int                    `json:"attempts"`
	Novel      bool                   `json:"novel"`
	Perplexity float64                `json:"perplexity"`
}

type ReflectRequest struct {
	Sentence string `json:"sentence" binding:"required"`
}

type ReflectResponse struct {
	Reflection string                  `json:"reflection,omitempty"`
	Verb       *sentgen.AnnotatedToken `json:"verb,omitempty"`
}

type ChatRequest struct {
	Corpus     string   `json:"corpus" binding:"required"`
	Message    string   `json:"message" binding:"required"`
	Threshold  *float64 `json:"threshold,omitempty"`
	RandomSeed *uint64  `json:"random_seed,omitempty"`
}

type ChatResponse struct {
	Reflection string            `json:"reflection,omitempty"`
	Reply      string            `json:"reply"`
	Sentence   *GenerateResponse `json:"sentence"`
	// FellBack is set when the message's verb was unknown to the corpus and the default seed was used
	FellBack bool `json:"fell_back"`
}
