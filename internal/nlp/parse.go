package nlp

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/cloo-solutions/yuholens/internal/domain"
)

// stripFences removes a surrounding markdown code fence, which models add even when
// asked for bare JSON.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func decode(text string, v any) error {
	body := stripFences(text)
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, domain.ErrResultUnavailable.Message,
			fmt.Errorf("parsing response: %w (response: %s)", err, body))
	}
	return nil
}

func unavailable(reason string) error {
	return domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, domain.ErrResultUnavailable.Message,
		fmt.Errorf("%s", reason))
}

type similarityPayload struct {
	Score *float64 `json:"score"`
}

func parseSimilarity(text string) (*domain.SimilarityResult, error) {
	var p similarityPayload
	if err := decode(text, &p); err != nil {
		return nil, err
	}
	if p.Score == nil || math.IsNaN(*p.Score) {
		return nil, unavailable("missing score")
	}
	return &domain.SimilarityResult{Score: clamp01(*p.Score)}, nil
}

type summaryPayload struct {
	Summary string `json:"summary"`
}

func parseSummary(text string) (*domain.SummaryResult, error) {
	var p summaryPayload
	if err := decode(text, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Summary) == "" {
		return nil, unavailable("empty summary")
	}
	return &domain.SummaryResult{Text: p.Summary}, nil
}

type sentimentPayload struct {
	Sentiment string   `json:"sentiment"`
	Score     *float64 `json:"score"`
}

func parseSentiment(text string) (*domain.SentimentResult, error) {
	var p sentimentPayload
	if err := decode(text, &p); err != nil {
		return nil, err
	}
	switch p.Sentiment {
	case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
	default:
		return nil, unavailable(fmt.Sprintf("unknown sentiment %q", p.Sentiment))
	}
	if p.Score == nil {
		return nil, unavailable("missing sentiment score")
	}
	return &domain.SentimentResult{Label: p.Sentiment, Score: clamp01(*p.Score)}, nil
}

type namedEntityPayload struct {
	Entities []domain.NamedEntity `json:"entities"`
}

func parseNamedEntities(text string) (*domain.NamedEntityResult, error) {
	var p namedEntityPayload
	if err := decode(text, &p); err != nil {
		return nil, err
	}
	entities := make([]domain.NamedEntity, 0, len(p.Entities))
	for _, e := range p.Entities {
		e.Form = strings.TrimSpace(e.Form)
		if e.Form == "" {
			continue
		}
		e.Class = domain.EntityClass(strings.ToUpper(strings.TrimSpace(string(e.Class))))
		entities = append(entities, e)
	}
	return &domain.NamedEntityResult{Entities: entities}, nil
}

// parseUserAttributes accepts a string or a list of strings per category. Unknown
// keys and empty values are dropped.
func parseUserAttributes(text string) (*domain.UserAttributeResult, error) {
	var raw map[string]json.RawMessage
	if err := decode(text, &raw); err != nil {
		return nil, err
	}

	values := make(map[domain.AttributeCategory][]string)
	for key, msg := range raw {
		category, err := domain.ParseCategory(key)
		if err != nil {
			continue
		}
		var list []string
		var single string
		switch {
		case json.Unmarshal(msg, &single) == nil:
			list = []string{single}
		case json.Unmarshal(msg, &list) == nil:
		default:
			continue
		}
		kept := list[:0]
		for _, v := range list {
			if v = strings.TrimSpace(v); v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			values[category] = kept
		}
	}
	return &domain.UserAttributeResult{Values: values}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
