package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	const count = 1000

	for range count {
		v, err := Generate(PrefixBook)
		require.NoError(t, err)
		assert.False(t, ids[v], "ID should be unique: %s", v)
		ids[v] = true
	}
	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	prefixes := []string{
		PrefixBook, PrefixArtwork, PrefixSeries, PrefixSuggestion,
		PrefixProfile, PrefixGoal, PrefixUser, PrefixSession,
	}

	for _, prefix := range prefixes {
		t.Run(prefix, func(t *testing.T) {
			v, err := Generate(prefix)
			require.NoError(t, err)

			assert.True(t, HasPrefix(v, prefix))
			assert.Len(t, v, len(prefix)+1+21)

			for _, char := range strings.TrimPrefix(v, prefix+"-") {
				assert.True(t,
					(char >= 'A' && char <= 'Z') ||
						(char >= 'a' && char <= 'z') ||
						(char >= '0' && char <= '9') ||
						char == '_' || char == '-',
					"character %c should be URL-safe", char)
			}
		})
	}
}

func TestHasPrefix(t *testing.T) {
	assert.True(t, HasPrefix("art-abc", PrefixArtwork))
	assert.False(t, HasPrefix("art-", PrefixArtwork))
	assert.False(t, HasPrefix("book-abc", PrefixArtwork))
	assert.False(t, HasPrefix("artwork-abc", PrefixArtwork))
}

func BenchmarkGenerate(b *testing.B) {
	for b.Loop() {
		_, _ = Generate(PrefixBook)
	}
}
