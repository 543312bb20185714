package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		slug, err := generateSlug()
		require.NoError(t, err)

		assert.Len(t, slug, slugLength)
		assert.Regexp(t, "^[a-z2-7]+$", slug, "slug must be lowercase base32")
		seen[slug] = true
	}
	assert.Greater(t, len(seen), 90, "slugs should be effectively unique")
}
