package generator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistractorsProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(8))
	for correct := 0; correct <= 60; correct++ {
		for _, hi := range []int{1, 5, 10, 50, 100} {
			got := Distractors(rnd, correct, 1, hi)
			require.Len(t, got, DistractorCount)
			seen := map[int]bool{}
			for _, v := range got {
				assert.NotEqual(t, correct, v)
				assert.GreaterOrEqual(t, v, 0)
				assert.False(t, seen[v])
				seen[v] = true
			}
		}
	}
}

func TestDistractorsFallbackSequence(t *testing.T) {
	// Range collapsed to the correct answer and offsets of 1: only correct±1 can
	// come out of the random phase, so the fallback must supply the rest.
	rnd := rand.New(rand.NewSource(4))
	got := Distractors(rnd, 0, 0, 0)
	require.Len(t, got, DistractorCount)
	assert.ElementsMatch(t, []int{1, 2, 3}, got)
}

func TestDistractorsNearSmallAnswer(t *testing.T) {
	rnd := rand.New(rand.NewSource(6))
	got := Distractors(rnd, 1, 1, 2)
	require.Len(t, got, DistractorCount)
	assert.NotContains(t, got, 1)
	for _, v := range got {
		assert.GreaterOrEqual(t, v, 0)
	}
}
