// Package config provides configuration structures for the retrieval engine.
// It defines engine search settings and the application configuration loaded
// from YAML with environment overrides.
package config

import (
	"strconv"
	"strings"
)

const (
	DefaultModel         = "vector"
	DefaultLimit         = 10
	DefaultTopTermsCount = 5
	DefaultStatsTopTerms = 10
)

var validModels = map[string]bool{
	"boolean": true,
	"vector":  true,
	"phrase":  true,
}

// EngineSettings controls how the engine answers queries when the caller leaves
// an option unset.
type EngineSettings struct {
	DefaultModel          string `json:"default_model" yaml:"defaultModel"`                    // Retrieval model used when the query names none: "boolean", "vector" or "phrase"
	DefaultLimit          int    `json:"default_limit" yaml:"defaultLimit"`                    // Maximum hits returned when the query sets no limit
	UseSpellingCorrection *bool  `json:"use_spelling_correction" yaml:"useSpellingCorrection"` // Whether queries are corrected unless the caller says otherwise
	TopTermsCount         int    `json:"top_terms_count" yaml:"topTermsCount"`                 // Related terms reported per search
	StatsTopTerms         int    `json:"stats_top_terms" yaml:"statsTopTerms"`                 // Most frequent corpus terms reported by stats
}

// ApplyDefaults fills unset fields with their default values.
func (settings *EngineSettings) ApplyDefaults() {
	if strings.TrimSpace(settings.DefaultModel) == "" {
		settings.DefaultModel = DefaultModel
	}
	settings.DefaultModel = strings.ToLower(strings.TrimSpace(settings.DefaultModel))
	if settings.DefaultLimit == 0 {
		settings.DefaultLimit = DefaultLimit
	}
	if settings.UseSpellingCorrection == nil {
		enabled := true
		settings.UseSpellingCorrection = &enabled
	}
	if settings.TopTermsCount == 0 {
		settings.TopTermsCount = DefaultTopTermsCount
	}
	if settings.StatsTopTerms == 0 {
		settings.StatsTopTerms = DefaultStatsTopTerms
	}
}

// SpellingCorrectionEnabled reports the effective correction default.
func (settings *EngineSettings) SpellingCorrectionEnabled() bool {
	return settings.UseSpellingCorrection == nil || *settings.UseSpellingCorrection
}

// Validate returns one message per invalid field. An empty result means the
// settings are usable.
func (settings *EngineSettings) Validate() []string {
	var errors []string

	if !validModels[settings.DefaultModel] {
		errors = append(errors, "Invalid default_model '"+settings.DefaultModel+"' (must be 'boolean', 'vector' or 'phrase')")
	}
	if settings.DefaultLimit < 0 {
		errors = append(errors, "default_limit must not be negative, got "+strconv.Itoa(settings.DefaultLimit))
	}
	if settings.TopTermsCount < 0 {
		errors = append(errors, "top_terms_count must not be negative, got "+strconv.Itoa(settings.TopTermsCount))
	}
	if settings.StatsTopTerms < 0 {
		errors = append(errors, "stats_top_terms must not be negative, got "+strconv.Itoa(settings.StatsTopTerms))
	}

	return errors
}
