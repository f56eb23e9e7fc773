package sentgen

import (
	model "sentgen/internal/model/sentgen"
)

// Follower is one distinct token seen after a given token, with how often it was seen
type Follower struct {
	model.AnnotatedToken
	Count int
}

// FreqDist is a conditional frequency distribution over corpus bigrams:
// for every annotated token it records which annotated tokens followed it.
type FreqDist struct {
	followers map[model.AnnotatedToken][]Follower
	positions map[model.AnnotatedToken]map[model.AnnotatedToken]int // condition -> sample -> slot in followers
}

// NewFreqDist counts every bigram of the corpus
func NewFreqDist(corpus model.Corpus) *FreqDist {
	fd := &FreqDist{
		followers: make(map[model.AnnotatedToken][]Follower),
		positions: make(map[model.AnnotatedToken]map[model.AnnotatedToken]int),
	}

	for i := 0; i+1 < len(corpus); i++ {
		fd.add(corpus[i], corpus[i+1])
	}

	return fd
}

func (fd *FreqDist) add(condition, sample model.AnnotatedToken) {
	slots, ok := fd.positions[condition]
	if !ok {
		slots = make(map[model.AnnotatedToken]int)
		fd.positions[condition] = slots
	}

	if slot, seen := slots[sample]; seen {
		fd.followers[condition][slot].Count++
		return
	}

	slots[sample] = len(fd.followers[condition])
	fd.followers[condition] = append(fd.followers[condition], Follower{AnnotatedToken: sample, Count: 1})
}

// FollowersOf returns the distinct followers of token in first-seen order.
// The returned slice must not be modified.
func (fd *FreqDist) FollowersOf(token model.AnnotatedToken) []Follower {
	return fd.followers[token]
}

// Conditions returns the number of distinct tokens that have at least one follower
func (fd *FreqDist) Conditions() int {
	return len(fd.followers)
}
