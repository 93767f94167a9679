package service

import (
	"fmt"

	"github.com/cloo-solutions/yuholens/internal/domain"
)

const sentenceTerminator = '。'

// Segment splits text into chunks of roughly maxLength runes, preferring to cut
// after a sentence terminator, then after a blank line, and otherwise at exactly
// maxLength. A blank-line cut ends the head after the first of the two newlines.
// Concatenating the chunk texts reproduces text.
//
// The boundary search covers the first maxLength+1 runes, so a terminator that sits
// exactly at position maxLength still ends the chunk there.
func Segment(text string, maxLength int) ([]domain.Chunk, error) {
	if maxLength <= 0 {
		return nil, fmt.Errorf("segment: %w", domain.ErrInvalidChunkLength)
	}

	runes := []rune(text)
	chunks := make([]domain.Chunk, 0, len(runes)/maxLength+1)
	for len(runes) >= maxLength {
		cut := splitPoint(runes, maxLength)
		chunks = append(chunks, domain.NewChunk(len(chunks), string(runes[:cut])))
		runes = runes[cut:]
	}
	if len(runes) > 0 || len(chunks) == 0 {
		chunks = append(chunks, domain.NewChunk(len(chunks), string(runes)))
	}
	return chunks, nil
}

// splitPoint returns the rune count of the next head. It is always in [1, maxLength+1].
func splitPoint(runes []rune, maxLength int) int {
	window := runes
	if len(window) > maxLength+1 {
		window = window[:maxLength+1]
	}

	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == sentenceTerminator {
			return i + 1
		}
	}
	for i := len(window) - 2; i >= 0; i-- {
		if window[i] == '\n' && window[i+1] == '\n' {
			return i + 1
		}
	}
	return maxLength
}

// SegmentDocument segments a document's text.
func SegmentDocument(doc domain.Document, maxLength int) ([]domain.Chunk, error) {
	return Segment(doc.Text, maxLength)
}
