package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCommandTree() *cobra.Command {
	root := &cobra.Command{Use: "yuholens"}
	AddHelpJSONFlag(root)

	attributes := &cobra.Command{Use: "attributes", Aliases: []string{"attrs"}}
	collect := &cobra.Command{Use: "collect", Short: "Collect attributes", RunE: func(*cobra.Command, []string) error { return nil }}
	var years YearRange
	AddYearFlag(collect.Flags(), &years)
	collect.Flags().String("output", "", "Output path")
	_ = collect.MarkFlagRequired("output")
	attributes.AddCommand(collect)

	root.AddCommand(attributes)
	root.AddCommand(&cobra.Command{Use: "secret", Hidden: true})
	return root
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema(testCommandTree())

	assert.Equal(t, "yuholens", schema.Name)
	require.Len(t, schema.Subcommands, 1)
	attrs := schema.Subcommands[0]
	assert.Equal(t, []string{"attrs"}, attrs.Aliases)
	require.Len(t, attrs.Subcommands, 1)

	collect := attrs.Subcommands[0]
	assert.Equal(t, "Collect attributes", collect.Description)
	flags := make(map[string]FlagSchema)
	for _, f := range collect.Flags {
		flags[f.Name] = f
	}
	assert.Equal(t, "years", flags["year"].Type)
	assert.Equal(t, "y", flags["year"].Shorthand)
	assert.False(t, flags["year"].Required)
	assert.True(t, flags["output"].Required)
}

func TestFindTargetCommand(t *testing.T) {
	root := testCommandTree()

	assert.Equal(t, "collect", findTargetCommand(root, []string{"attrs", "collect"}).Name())
	assert.Equal(t, "yuholens", findTargetCommand(root, []string{"unknown"}).Name())
}

func TestWriteSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSchema(&buf, testCommandTree()))

	var decoded CommandSchema
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "yuholens", decoded.Name)
}
