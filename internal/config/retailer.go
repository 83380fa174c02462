package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/Jeroenbekkers/modelbank-card-matching/internal/matching/model"
)

// MatchingConfig is the per-retailer tuning block of retailers.yaml.
type MatchingConfig struct {
	NameSimilarityThreshold float64 `mapstructure:"name_similarity_threshold"`
	FuzzySkuEnabled         *bool   `mapstructure:"fuzzy_sku_enabled"`
	MaxFuzzyMatchesHigh     int     `mapstructure:"max_fuzzy_matches_high"`
	MaxFuzzyMatchesMedium   int     `mapstructure:"max_fuzzy_matches_medium"`
}

// RetailerProfile carries everything retailer-specific: matching options, SKU
// extraction patterns, prefix tokens and the style name → id table. All of it
// is data, so unusual retailers need configuration, not code.
type RetailerProfile struct {
	Matching       MatchingConfig        `mapstructure:"matching"`
	SkuPatterns    []model.PatternConfig `mapstructure:"sku_patterns"`
	SkuPrefixStrip []string              `mapstructure:"sku_prefix_strip"`
	StyleIDs       map[string]int        `mapstructure:"style_ids"`
}

// Options folds the profile into engine options, filling defaults for
// anything the profile leaves unset.
func (p RetailerProfile) Options() model.Options {
	opt := model.DefaultOptions()
	if p.Matching.NameSimilarityThreshold > 0 {
		opt.NameSimilarityThreshold = p.Matching.NameSimilarityThreshold
	}
	if p.Matching.FuzzySkuEnabled != nil {
		opt.FuzzySkuEnabled = *p.Matching.FuzzySkuEnabled
	}
	if p.Matching.MaxFuzzyMatchesHigh > 0 {
		opt.MaxFuzzyMatchesHigh = p.Matching.MaxFuzzyMatchesHigh
	}
	if p.Matching.MaxFuzzyMatchesMedium > 0 {
		opt.MaxFuzzyMatchesMedium = p.Matching.MaxFuzzyMatchesMedium
	}
	opt.SkuPrefixStrip = p.SkuPrefixStrip
	opt.SkuPatterns = p.SkuPatterns
	return opt
}

// LoadRetailers reads the retailer profile file. A missing file is not an
// error — the service then runs on defaults only.
func LoadRetailers(path string) (map[string]RetailerProfile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]RetailerProfile{}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read retailers config: %w", err)
	}

	out := make(map[string]RetailerProfile)
	if err := v.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("decode retailers config: %w", err)
	}
	return out, nil
}
