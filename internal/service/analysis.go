package service

import (
	"context"
	"fmt"
	"log"

	"github.com/cloo-solutions/yuholens/internal/domain"
)

// NLPClient is the external language service. A nil result or an error means the
// result is unavailable for that text.
type NLPClient interface {
	Similarity(ctx context.Context, textA, textB string) (*domain.SimilarityResult, error)
	Summary(ctx context.Context, text string, targetRatio float64) (*domain.SummaryResult, error)
	Sentiment(ctx context.Context, text string) (*domain.SentimentResult, error)
	NamedEntities(ctx context.Context, text string) (*domain.NamedEntityResult, error)
	UserAttributes(ctx context.Context, text string) (*domain.UserAttributeResult, error)
}

// Pacer blocks until the next external call may be made.
type Pacer interface {
	Wait(ctx context.Context) error
}

type noPacer struct{}

func (noPacer) Wait(context.Context) error { return nil }

// AnalysisService runs the chunked language analyses of a document. Calls are made
// one chunk at a time, in order, each after a pacing wait. Failed calls are not
// retried; the chunk is left out of the aggregate.
type AnalysisService struct {
	client NLPClient
	pacer  Pacer
}

// NewAnalysisService creates an AnalysisService. A nil pacer disables pacing.
func NewAnalysisService(client NLPClient, pacer Pacer) (*AnalysisService, error) {
	if client == nil {
		return nil, domain.ErrMissingClient
	}
	if pacer == nil {
		pacer = noPacer{}
	}
	return &AnalysisService{client: client, pacer: pacer}, nil
}

// Similarity compares two texts chunk by chunk and returns the weighted score.
func (s *AnalysisService) Similarity(ctx context.Context, textA, textB string, maxLength int) (float64, error) {
	docA, docB := domain.NewDocument(textA), domain.NewDocument(textB)
	chunksA, err := Segment(docA.Text, maxLength)
	if err != nil {
		return 0, err
	}
	chunksB, err := Segment(docB.Text, maxLength)
	if err != nil {
		return 0, err
	}

	pairs := len(chunksA)
	if len(chunksB) < pairs {
		pairs = len(chunksB)
	}
	results := make([]*domain.SimilarityResult, pairs)
	for i := 0; i < pairs; i++ {
		if err := s.pacer.Wait(ctx); err != nil {
			return 0, err
		}
		r, err := s.client.Similarity(ctx, chunksA[i].Text, chunksB[i].Text)
		if err != nil {
			logUnavailable("similarity", i, err)
			continue
		}
		results[i] = r
	}
	return MergeSimilarity(docA, docB, chunksA, chunksB, results), nil
}

// Summarize summarizes each chunk and concatenates the summaries.
func (s *AnalysisService) Summarize(ctx context.Context, text string, maxLength int, targetRatio float64) (string, error) {
	chunks, err := Segment(text, maxLength)
	if err != nil {
		return "", err
	}
	results := make([]*domain.SummaryResult, len(chunks))
	for i, c := range chunks {
		if err := s.pacer.Wait(ctx); err != nil {
			return "", err
		}
		r, err := s.client.Summary(ctx, c.Text, targetRatio)
		if err != nil {
			logUnavailable("summary", i, err)
			continue
		}
		results[i] = r
	}
	return MergeSummaries(results), nil
}

// Sentiment returns the length-weighted sentiment totals of text.
func (s *AnalysisService) Sentiment(ctx context.Context, text string, maxLength int) (domain.SentimentTotals, error) {
	doc := domain.NewDocument(text)
	chunks, err := Segment(doc.Text, maxLength)
	if err != nil {
		return domain.SentimentTotals{}, err
	}
	results := make([]*domain.SentimentResult, len(chunks))
	for i, c := range chunks {
		if err := s.pacer.Wait(ctx); err != nil {
			return domain.SentimentTotals{}, err
		}
		r, err := s.client.Sentiment(ctx, c.Text)
		if err != nil {
			logUnavailable("sentiment", i, err)
			continue
		}
		results[i] = r
	}
	return MergeSentiment(doc, chunks, results), nil
}

// NamedEntities returns the de-duplicated accepted mentions of text.
func (s *AnalysisService) NamedEntities(ctx context.Context, text string, maxLength int) ([]domain.NamedEntity, error) {
	chunks, err := Segment(text, maxLength)
	if err != nil {
		return nil, err
	}
	results := make([]*domain.NamedEntityResult, len(chunks))
	for i, c := range chunks {
		if err := s.pacer.Wait(ctx); err != nil {
			return nil, err
		}
		r, err := s.client.NamedEntities(ctx, c.Text)
		if err != nil {
			logUnavailable("named entities", i, err)
			continue
		}
		results[i] = r
	}
	return MergeNamedEntities(results), nil
}

// UserAttributes infers the reader attribute distribution of text.
func (s *AnalysisService) UserAttributes(ctx context.Context, text string, maxLength int) (*domain.AttributeDistribution, error) {
	doc := domain.NewDocument(text)
	chunks, err := Segment(doc.Text, maxLength)
	if err != nil {
		return nil, err
	}
	results := make([]*domain.UserAttributeResult, len(chunks))
	for i, c := range chunks {
		if err := s.pacer.Wait(ctx); err != nil {
			return nil, err
		}
		r, err := s.client.UserAttributes(ctx, c.Text)
		if err != nil {
			logUnavailable("user attributes", i, err)
			continue
		}
		results[i] = r
	}
	return MergeUserAttributes(doc, chunks, results), nil
}

func logUnavailable(metric string, chunk int, err error) {
	log.Printf("analysis: %s unavailable for chunk %d: %v", metric, chunk, err)
}

// ValidateChunkLength fails when a configured chunk length cannot be used.
func ValidateChunkLength(name string, maxLength int) error {
	if maxLength <= 0 {
		return fmt.Errorf("%s=%d: %w", name, maxLength, domain.ErrInvalidChunkLength)
	}
	return nil
}
