package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentLengthsAreRunes(t *testing.T) {
	doc := NewDocument("有価証券報告書")
	assert.Equal(t, 7, doc.Length)

	chunks := []Chunk{NewChunk(0, "有価"), NewChunk(1, "証券報告書")}
	assert.Equal(t, 2, chunks[0].Length)
	assert.Equal(t, doc.Text, JoinChunks(chunks))
}

func TestEntityClass_IsAccepted(t *testing.T) {
	for _, c := range []EntityClass{EntityArtifact, EntityPerson, EntityLocation} {
		assert.True(t, c.IsAccepted(), c)
	}
	for _, c := range []EntityClass{EntityOrganization, EntityDate, EntityMoney, "XYZ"} {
		assert.False(t, c.IsAccepted(), c)
	}
}
