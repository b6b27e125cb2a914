package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id := GenerateID()
		assert.Len(t, id, IDLength)
		assert.NotContains(t, id, "o")
		assert.NotContains(t, id, "O")
		assert.NotContains(t, id, "0")
		for _, r := range id {
			assert.True(t, strings.ContainsRune(IDAlphabet, r), "unexpected rune %q", r)
		}
		seen[id] = true
	}
	// 59^5 вариантов: совпадения возможны, но редки
	assert.Greater(t, len(seen), 490)
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "aB3x9", NormalizeID("  aB3x9\n"))
	assert.Equal(t, "", NormalizeID("   "))
}
