package universe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{
			name:  "keeps order",
			input: "name: core\ncodes: [7203, 6758, 9984]\n",
			want:  []int{7203, 6758, 9984},
		},
		{
			name:  "drops duplicates",
			input: "name: core\ncodes:\n  - 7203\n  - 6758\n  - 7203\n  - 6758\n  - 8306\n",
			want:  []int{7203, 6758, 8306},
		},
		{
			name:    "empty",
			input:   "name: none\ncodes: []\n",
			wantErr: true,
		},
		{
			name:    "five digit code",
			input:   "name: bad\ncodes: [72030]\n",
			wantErr: true,
		},
		{
			name:    "not yaml",
			input:   "codes: [1, 2",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Parse([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.Codes)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "u.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: test\ncodes: [2914]\n"), 0o644))

	u, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "test", u.Name)
	assert.Equal(t, []int{2914}, u.Codes)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_BundledUniverse(t *testing.T) {
	u, err := Load(filepath.Join("..", "..", "universes", "topix_core30.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "TOPIX Core30", u.Name)
	assert.Len(t, u.Codes, 30)
}
