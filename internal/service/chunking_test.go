package service

import (
	"strings"
	"testing"

	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkTexts(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxLength int
		want      []string
	}{
		{
			name:      "empty text",
			text:      "",
			maxLength: 5,
			want:      []string{""},
		},
		{
			name:      "shorter than limit",
			text:      "短い文。",
			maxLength: 10,
			want:      []string{"短い文。"},
		},
		{
			name:      "splits at first terminator",
			text:      "AはBです。CはDです。",
			maxLength: 5,
			want:      []string{"AはBです。", "CはDです。"},
		},
		{
			name:      "prefers last terminator in window",
			text:      "一。二。三四五六七八",
			maxLength: 6,
			want:      []string{"一。二。", "三四五六七八"},
		},
		{
			name:      "terminator preferred over blank line",
			text:      "ab。c\n\ndefghij",
			maxLength: 7,
			want:      []string{"ab。", "c\n", "\ndefghi", "j"},
		},
		{
			name:      "blank line cut after first newline",
			text:      "abc\n\ndefghijkl",
			maxLength: 7,
			want:      []string{"abc\n", "\ndefghi", "jkl"},
		},
		{
			name:      "hard cut without boundaries",
			text:      "abcdefghijk",
			maxLength: 4,
			want:      []string{"abcd", "efgh", "ijk"},
		},
		{
			name:      "length equal to limit is cut",
			text:      "abcd",
			maxLength: 4,
			want:      []string{"abcd"},
		},
		{
			name:      "multibyte runes count once",
			text:      "あいうえおかきくけこ",
			maxLength: 5,
			want:      []string{"あいうえお", "かきくけこ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Segment(tt.text, tt.maxLength)
			require.NoError(t, err)
			assert.Equal(t, tt.want, chunkTexts(chunks))
			for i, c := range chunks {
				assert.Equal(t, i, c.Index)
			}
		})
	}
}

func TestSegment_InvalidLength(t *testing.T) {
	for _, n := range []int{0, -1} {
		chunks, err := Segment("text", n)
		assert.Nil(t, chunks)
		assert.ErrorIs(t, err, domain.ErrInvalidChunkLength)
	}
}

func TestSegment_RoundTrip(t *testing.T) {
	texts := []string{
		"",
		"a",
		"当社グループは、持続的な成長を目指します。\n\n市場環境は厳しい状況が続きました。",
		strings.Repeat("売上高は増加しました。", 40),
		strings.Repeat("x", 97) + "\n\n" + strings.Repeat("。", 3),
		"\n\n\n\n。。。",
	}

	for _, text := range texts {
		for maxLength := 1; maxLength <= 12; maxLength++ {
			chunks, err := Segment(text, maxLength)
			require.NoError(t, err)
			assert.Equal(t, text, domain.JoinChunks(chunks), "maxLength=%d", maxLength)
			for _, c := range chunks {
				assert.LessOrEqual(t, c.Length, maxLength+1)
			}
		}
	}
}

func TestSegment_ChunkCountWithoutBoundaries(t *testing.T) {
	tests := []struct {
		length    int
		maxLength int
		want      int
	}{
		{length: 10, maxLength: 3, want: 4},
		{length: 12, maxLength: 3, want: 4},
		{length: 100, maxLength: 7, want: 15},
		{length: 2, maxLength: 1, want: 2},
	}

	for _, tt := range tests {
		text := strings.Repeat("字", tt.length)
		chunks, err := Segment(text, tt.maxLength)
		require.NoError(t, err)
		require.Len(t, chunks, tt.want)
		for _, c := range chunks[:len(chunks)-1] {
			assert.Equal(t, tt.maxLength, c.Length)
		}
		assert.LessOrEqual(t, chunks[len(chunks)-1].Length, tt.maxLength)
	}
}
