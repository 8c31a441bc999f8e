// ABOUTME: Translation cache key model addressed by language pair and content hash
// ABOUTME: Provides the deterministic, order-sensitive text hash used for cache keys

package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// TranslationKey identifies a cached translation
type TranslationKey struct {
	Source string
	Target string
	Hash   string
}

// NewTranslationKey builds the key for text translated from source to target
func NewTranslationKey(text, source, target string) TranslationKey {
	return TranslationKey{
		Source: normalizeLang(source),
		Target: normalizeLang(target),
		Hash:   HashText(text),
	}
}

// String renders the key as stored in the durable cache
func (k TranslationKey) String() string {
	return fmt.Sprintf("translation:%s:%s:%s", k.Source, k.Target, k.Hash)
}

// HashText returns a base36 xxhash64 of text
func HashText(text string) string {
	return strconv.FormatUint(xxhash.Sum64String(text), 36)
}

// SameLanguage reports whether source and target name the same language tag
func SameLanguage(source, target string) bool {
	return normalizeLang(source) == normalizeLang(target)
}

func normalizeLang(lang string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lang), "_", "-"))
}
