package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 500 {
		id, err := Generate("run")
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{"run", "batch"} {
		t.Run(prefix, func(t *testing.T) {
			id, err := Generate(prefix)
			require.NoError(t, err)

			suffix, ok := strings.CutPrefix(id, prefix+"-")
			require.True(t, ok, id)
			assert.Len(t, suffix, 21)
			for _, c := range suffix {
				assert.True(t,
					(c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
						(c >= '0' && c <= '9') || c == '_' || c == '-',
					"character %q is not URL-safe", c)
			}
		})
	}
}
