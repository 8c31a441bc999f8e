// ABOUTME: Feature flag management for switching accessibility channels on and off
// ABOUTME: Provides interface-based feature toggling with environment and static backends

package featureflags

import (
	"context"
	"os"
	"strings"
	"sync"
)

// FeatureFlag represents a single feature flag
type FeatureFlag string

// Defined feature flags
const (
	// SpeechEnabled enables read-aloud and the voices endpoint
	SpeechEnabled FeatureFlag = "speech_enabled"

	// CaptionsEnabled enables live captions
	CaptionsEnabled FeatureFlag = "captions_enabled"

	// TranslationEnabled enables the translation endpoints
	TranslationEnabled FeatureFlag = "translation_enabled"

	// RateLimitEnabled enables rate limiting
	RateLimitEnabled FeatureFlag = "rate_limit_enabled"

	// CacheEnabled enables the durable translation store
	CacheEnabled FeatureFlag = "cache_enabled"
)

// All lists every defined flag
var All = []FeatureFlag{
	SpeechEnabled,
	CaptionsEnabled,
	TranslationEnabled,
	RateLimitEnabled,
	CacheEnabled,
}

// Defaults is the state of each flag when nothing configures it
var Defaults = map[FeatureFlag]bool{
	SpeechEnabled:      true,
	CaptionsEnabled:    true,
	TranslationEnabled: true,
	RateLimitEnabled:   true,
	CacheEnabled:       true,
}

// Manager defines the interface for feature flag management
type Manager interface {
	// IsEnabled checks if a feature flag is enabled
	IsEnabled(ctx context.Context, flag FeatureFlag) bool

	// SetEnabled sets a feature flag's state (for testing)
	SetEnabled(flag FeatureFlag, enabled bool)

	// GetAllFlags returns the state of all flags
	GetAllFlags() map[FeatureFlag]bool
}

// EnvManager implements Manager using environment variables
type EnvManager struct {
	mu        sync.RWMutex
	overrides map[FeatureFlag]bool
	defaults  map[FeatureFlag]bool
	prefix    string
}

// NewEnvManager creates a new environment-based feature flag manager.
// Flags whose variable is unset take their value from defaults.
func NewEnvManager(prefix string, defaults map[FeatureFlag]bool) *EnvManager {
	if prefix == "" {
		prefix = "FEATURE_"
	}
	if defaults == nil {
		defaults = make(map[FeatureFlag]bool)
	}
	return &EnvManager{
		overrides: make(map[FeatureFlag]bool),
		defaults:  defaults,
		prefix:    prefix,
	}
}

// IsEnabled checks if a feature flag is enabled
func (m *EnvManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if enabled, ok := m.overrides[flag]; ok {
		return enabled
	}

	value, ok := os.LookupEnv(m.prefix + strings.ToUpper(string(flag)))
	if !ok || value == "" {
		return m.defaults[flag]
	}
	return parseBool(value)
}

// SetEnabled sets a feature flag's state (mainly for testing)
func (m *EnvManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[flag] = enabled
}

// GetAllFlags returns the state of all defined flags
func (m *EnvManager) GetAllFlags() map[FeatureFlag]bool {
	ctx := context.Background()
	flags := make(map[FeatureFlag]bool, len(All))
	for _, flag := range All {
		flags[flag] = m.IsEnabled(ctx, flag)
	}
	return flags
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "enabled", "on":
		return true
	}
	return false
}

// StaticManager implements Manager with static configuration
type StaticManager struct {
	flags map[FeatureFlag]bool
	mu    sync.RWMutex
}

// NewStaticManager creates a manager with predefined flag states
func NewStaticManager(flags map[FeatureFlag]bool) *StaticManager {
	copied := make(map[FeatureFlag]bool, len(flags))
	for k, v := range flags {
		copied[k] = v
	}
	return &StaticManager{
		flags: copied,
	}
}

// IsEnabled checks if a feature flag is enabled
func (m *StaticManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[flag]
}

// SetEnabled sets a feature flag's state
func (m *StaticManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[flag] = enabled
}

// GetAllFlags returns all flag states
func (m *StaticManager) GetAllFlags() map[FeatureFlag]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[FeatureFlag]bool)
	for k, v := range m.flags {
		result[k] = v
	}
	return result
}
