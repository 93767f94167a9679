package service

import (
	"context"
	"fmt"

	"github.com/cloo-solutions/yuholens/internal/domain"
)

// ScreenMatch is a company that passed a screen, with the top values it was judged on.
type ScreenMatch struct {
	Company string                                `json:"company"`
	Top     map[domain.AttributeCategory][]string `json:"top"`
}

// ScreenService applies attribute screens to stored distributions.
type ScreenService struct {
	source AttributeSource
}

// NewScreenService creates a ScreenService.
func NewScreenService(source AttributeSource) *ScreenService {
	return &ScreenService{source: source}
}

// Screen returns the companies of a year whose stored distribution matches rule, in
// stored order.
func (s *ScreenService) Screen(ctx context.Context, year int, rule domain.ScreenRule) ([]ScreenMatch, error) {
	companies, err := s.source.Companies(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	distributions, err := LoadDistributions(ctx, s.source, year, companies)
	if err != nil {
		return nil, err
	}

	matches := make([]ScreenMatch, 0)
	for _, name := range companies {
		d, ok := distributions[name]
		if !ok || !rule.Match(d) {
			continue
		}
		matches = append(matches, ScreenMatch{Company: name, Top: ruleTop(rule, d)})
	}
	return matches, nil
}

func ruleTop(rule domain.ScreenRule, d *domain.AttributeDistribution) map[domain.AttributeCategory][]string {
	top := make(map[domain.AttributeCategory][]string)
	for c := range rule.Require {
		top[c] = d.Top(c)
	}
	for c := range rule.Exclude {
		top[c] = d.Top(c)
	}
	return top
}
