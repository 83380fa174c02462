package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const retailersYaml = `
basset:
  matching:
    name_similarity_threshold: 0.7
    fuzzy_sku_enabled: false
  sku_prefix_strip: ["BAS", "BASX1"]
  sku_patterns:
    - label: kit
      pattern: '\b(KIT\d+)\b'
  style_ids:
    modern: 3
    rustic: 7
plain: {}
`

func writeRetailers(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retailers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(retailersYaml), 0o644))
	return path
}

func TestLoadRetailers(t *testing.T) {
	t.Run("missing file means defaults only", func(t *testing.T) {
		profiles, err := LoadRetailers(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Empty(t, profiles)
	})

	t.Run("profiles decode", func(t *testing.T) {
		profiles, err := LoadRetailers(writeRetailers(t))
		require.NoError(t, err)
		require.Contains(t, profiles, "basset")
		require.Contains(t, profiles, "plain")

		p := profiles["basset"]
		assert.Equal(t, 0.7, p.Matching.NameSimilarityThreshold)
		require.NotNil(t, p.Matching.FuzzySkuEnabled)
		assert.False(t, *p.Matching.FuzzySkuEnabled)
		assert.Equal(t, []string{"BAS", "BASX1"}, p.SkuPrefixStrip)
		require.Len(t, p.SkuPatterns, 1)
		assert.Equal(t, "kit", p.SkuPatterns[0].Label)
		assert.Equal(t, 3, p.StyleIDs["modern"])
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "retailers.yaml")
		require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0o644))
		_, err := LoadRetailers(path)
		assert.Error(t, err)
	})
}

func TestProfileOptions(t *testing.T) {
	t.Run("empty profile keeps defaults", func(t *testing.T) {
		opt := RetailerProfile{}.Options()
		assert.Equal(t, 0.6, opt.NameSimilarityThreshold)
		assert.True(t, opt.FuzzySkuEnabled)
		assert.Equal(t, 1, opt.MaxFuzzyMatchesHigh)
		assert.Equal(t, 3, opt.MaxFuzzyMatchesMedium)
	})

	t.Run("set fields override", func(t *testing.T) {
		off := false
		p := RetailerProfile{
			Matching: MatchingConfig{
				NameSimilarityThreshold: 0.75,
				FuzzySkuEnabled:         &off,
				MaxFuzzyMatchesMedium:   5,
			},
			SkuPrefixStrip: []string{"BAS"},
		}
		opt := p.Options()
		assert.Equal(t, 0.75, opt.NameSimilarityThreshold)
		assert.False(t, opt.FuzzySkuEnabled)
		assert.Equal(t, 1, opt.MaxFuzzyMatchesHigh)
		assert.Equal(t, 5, opt.MaxFuzzyMatchesMedium)
		assert.Equal(t, []string{"BAS"}, opt.SkuPrefixStrip)
	})
}
