package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSlug_Format(t *testing.T) {
	slug := GenerateSlug("Anna & Ben")

	require.True(t, strings.HasPrefix(slug, "anna-ben-"), "got %q", slug)
	require.Regexp(t, regexp.MustCompile(`^[a-z0-9-]+$`), slug)
}

func TestGenerateSlug_DistinctForSameNames(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		slug := GenerateSlug("Anna & Ben")
		require.False(t, seen[slug], "slug %q repeated", slug)
		seen[slug] = true
	}
}

func TestGenerateSlug_StripsSpecialCharacters(t *testing.T) {
	slug := GenerateSlug("José! & Müller?")

	require.Regexp(t, regexp.MustCompile(`^[a-z0-9-]+$`), slug)
	require.NotContains(t, slug, "!")
	require.NotContains(t, slug, "?")
}

func TestGenerateSecretCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9]{8}$`)
	for i := 0; i < 20; i++ {
		code := GenerateSecretCode()
		require.Regexp(t, pattern, code)
	}
}
