package domain

import "unicode/utf8"

// Document is one narrative text whose length is measured in runes.
type Document struct {
	Text   string
	Length int
}

// NewDocument wraps text and records its rune length.
func NewDocument(text string) Document {
	return Document{Text: text, Length: utf8.RuneCountInString(text)}
}

// Chunk is a contiguous slice of a Document.
type Chunk struct {
	Index  int
	Text   string
	Length int
}

// NewChunk creates a chunk at the given position.
func NewChunk(index int, text string) Chunk {
	return Chunk{Index: index, Text: text, Length: utf8.RuneCountInString(text)}
}

// JoinChunks concatenates chunk texts in order.
func JoinChunks(chunks []Chunk) string {
	n := 0
	for _, c := range chunks {
		n += len(c.Text)
	}
	buf := make([]byte, 0, n)
	for _, c := range chunks {
		buf = append(buf, c.Text...)
	}
	return string(buf)
}
