package domain

// SimilarityResult is the service score for one chunk pair, in [0,1].
type SimilarityResult struct {
	Score float64
}

// SummaryResult is the summary text of one chunk.
type SummaryResult struct {
	Text string
}

// Sentiment labels reported by the language service.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// SentimentResult is the dominant sentiment of one chunk.
type SentimentResult struct {
	Label string
	Score float64
}

// EntityClass identifies the kind of a named-entity mention.
type EntityClass string

const (
	EntityArtifact     EntityClass = "ART"
	EntityPerson       EntityClass = "PSN"
	EntityLocation     EntityClass = "LOC"
	EntityOrganization EntityClass = "ORG"
	EntityDate         EntityClass = "DAT"
	EntityTime         EntityClass = "TIM"
	EntityMoney        EntityClass = "MNY"
	EntityPercent      EntityClass = "PCT"
)

// IsAccepted reports whether mentions of this class are kept in aggregates.
func (c EntityClass) IsAccepted() bool {
	switch c {
	case EntityArtifact, EntityPerson, EntityLocation:
		return true
	}
	return false
}

// NamedEntity is one mention extracted from text.
type NamedEntity struct {
	Class EntityClass `json:"class"`
	Form  string      `json:"form"`
}

// NamedEntityResult holds the mentions found in one chunk.
type NamedEntityResult struct {
	Entities []NamedEntity
}

// UserAttributeResult holds inferred reader attributes for one chunk. Single-valued
// categories carry one element; categories the service omitted are absent.
type UserAttributeResult struct {
	Values map[AttributeCategory][]string
}
