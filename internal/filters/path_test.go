package filters

import (
	"testing"

	"github.com/n2code/vsprojm/internal/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPath(t *testing.T) {
	tests := []struct {
		raw  string
		want Path
	}{
		{`src`, `src`},
		{`src/core`, `src\core`},
		{`\src\\core\`, `src\core`},
		{` Source Files `, `Source Files`},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NewPath(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	for _, raw := range []string{"", `\`, " / "} {
		_, err := NewPath(raw)
		assert.ErrorIs(t, err, fault.ErrInvalidPath, raw)
	}
}

func TestPathRelations(t *testing.T) {
	p := MustPath(`a\b\c`)
	assert.Equal(t, "c", p.Name())
	assert.Equal(t, Path(`a\b`), p.Parent())
	assert.Equal(t, Path(""), MustPath("a").Parent())
	assert.Equal(t, 3, p.Depth())
	assert.Equal(t, []Path{`a`, `a\b`, `a\b\c`}, p.Lineage())
	assert.Nil(t, Path("").Lineage())

	assert.True(t, MustPath("a").Contains(p))
	assert.True(t, p.Contains(p))
	assert.True(t, Path("").Contains(p))
	assert.False(t, MustPath(`a\b\c\d`).Contains(p))
	assert.False(t, MustPath("a\\bb").Contains(MustPath(`a\b`)))
	assert.False(t, MustPath(`a\b`).Contains(MustPath(`a\bb`)))
}

func TestRebase(t *testing.T) {
	tests := []struct {
		p, from, to Path
		want        Path
	}{
		{`a`, `a`, `x`, `x`},
		{`a\b\c`, `a`, `x\y`, `x\y\b\c`},
		{`a\b`, `a\b`, `a`, `a`},
		{`a\b\c`, `a\b`, `a`, `a\c`},
		{`other`, `a`, `x`, `other`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.p.Rebase(tt.from, tt.to), "%s from %s to %s", tt.p, tt.from, tt.to)
	}
}
