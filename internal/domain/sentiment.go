package domain

// SentimentTotals is the document-level sentiment: per label, the length-weighted
// score sum and the share of document length that reported the label.
type SentimentTotals struct {
	Scores  WeightedValues
	Weights WeightedValues
}

// Add records one chunk's contribution.
func (s *SentimentTotals) Add(label string, score, weight float64) {
	s.Scores.Add(label, score*weight)
	s.Weights.Add(label, weight)
}

// Dominant returns the label with the highest score total, or "" when empty.
func (s *SentimentTotals) Dominant() string {
	top := s.Scores.Top(1)
	if len(top) == 0 {
		return ""
	}
	return top[0].Label
}

// Ranked returns labels ordered by score total, highest first.
func (s *SentimentTotals) Ranked() []WeightedValue {
	return s.Scores.Top(s.Scores.Len())
}
