// ABOUTME: Voice selection for read-aloud sessions
// ABOUTME: Prefers on-device voices in the content language, then the language family, then the engine default

package playback

import (
	"strings"

	"digests-a11y/core/domain"

	"golang.org/x/text/language"
)

// SelectVoice picks the voice for content in lang. It returns nil when the
// engine default should be used.
func SelectVoice(voices []domain.Voice, lang string) *domain.Voice {
	want, err := parseTag(lang)
	if err != nil || want == language.Und {
		return nil
	}
	wantBase, _ := want.Base()
	_, regionConf := want.Region()
	withRegion := regionConf == language.Exact

	matches := func(tag language.Tag) bool {
		if withRegion {
			return tag == want
		}
		base, _ := tag.Base()
		return base == wantBase
	}

	var exact, family *domain.Voice
	for i := range voices {
		v := &voices[i]
		tag, err := parseTag(v.Language)
		if err != nil {
			continue
		}
		if base, _ := tag.Base(); base != wantBase {
			continue
		}
		if matches(tag) {
			if v.Local {
				return v
			}
			if exact == nil {
				exact = v
			}
		}
		if family == nil {
			family = v
		}
	}

	if exact != nil {
		return exact
	}
	return family
}

func parseTag(s string) (language.Tag, error) {
	return language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
}
