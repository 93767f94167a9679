package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentimentTotals(t *testing.T) {
	var s SentimentTotals
	assert.Empty(t, s.Dominant())

	s.Add(SentimentPositive, 0.9, 0.2)
	s.Add(SentimentNegative, 0.6, 0.8)
	s.Add(SentimentPositive, 0.5, 0.1)

	assert.Equal(t, SentimentNegative, s.Dominant())
	ranked := s.Ranked()
	assert.Len(t, ranked, 2)
	assert.InDelta(t, 0.48, ranked[0].Weight, 1e-9)
	assert.InDelta(t, 0.23, ranked[1].Weight, 1e-9)
	assert.InDelta(t, 1.1, s.Weights.Total(), 1e-9)
}
