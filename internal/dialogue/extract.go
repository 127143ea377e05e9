package dialogue

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"

	"github.com/shapedtime/cuewords/internal/ass"
)

// Strategy names accepted by NewExtractor.
const (
	StrategyTag        = "tag"
	StrategyPositional = "positional"
	StrategyLanguage   = "language"
)

// Default font markers of the bilingual track.
const (
	DefaultChineseFont = "华文楷体"
	DefaultEnglishFont = "Cronos Pro Subhead"
)

// Extractor derives the Chinese and English text of one cue from its runs.
// An empty return value means the language is absent.
type Extractor interface {
	Extract(runs []ass.Run) (chinese, english string)
}

// NewExtractor returns the extractor for a strategy name. Font markers only
// apply to the tag strategy; empty values select the defaults.
func NewExtractor(strategy, chineseFont, englishFont string) (Extractor, error) {
	switch strings.ToLower(strategy) {
	case "", StrategyTag:
		if chineseFont == "" {
			chineseFont = DefaultChineseFont
		}
		if englishFont == "" {
			englishFont = DefaultEnglishFont
		}
		return TagExtractor{ChineseFont: chineseFont, EnglishFont: englishFont}, nil
	case StrategyPositional:
		return PositionalExtractor{}, nil
	case StrategyLanguage:
		return LanguageExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy: %q (must be 'tag', 'positional' or 'language')", strategy)
	}
}

// TagExtractor picks the first run whose override tags switch to the
// Chinese font and the first run that switches to the English font.
// Runs matching neither font are ignored.
type TagExtractor struct {
	ChineseFont string
	EnglishFont string
}

func (e TagExtractor) Extract(runs []ass.Run) (string, string) {
	var chinese, english string
	foundZh, foundEn := false, false
	for _, r := range runs {
		if !foundZh && r.HasTag("fn", e.ChineseFont) {
			chinese, foundZh = cleanText(r.Text), true
		}
		if !foundEn && r.HasTag("fn", e.EnglishFont) {
			english, foundEn = cleanText(r.Text), true
		}
	}
	return chinese, english
}

// PositionalExtractor treats run[0] as Chinese and run[1] as English. When
// run[1] is only a forced line break the English text is taken from run[2].
type PositionalExtractor struct{}

func (PositionalExtractor) Extract(runs []ass.Run) (string, string) {
	if len(runs) == 0 {
		return "", ""
	}
	chinese := cleanText(runs[0].Text)

	english := ""
	if len(runs) > 1 {
		if runs[1].Text == ass.ForcedLineBreak {
			if len(runs) > 2 {
				english = cleanText(runs[2].Text)
			}
		} else {
			english = cleanText(runs[1].Text)
		}
	}
	return chinese, english
}

// LanguageExtractor ignores styling and classifies text by script: the first
// Han fragment is Chinese, the first Latin fragment is English. Runs are
// also split at forced line breaks so "中文\NEnglish" in a single run works.
type LanguageExtractor struct{}

func (LanguageExtractor) Extract(runs []ass.Run) (string, string) {
	var chinese, english string
	for _, r := range runs {
		for _, frag := range strings.Split(r.Text, ass.ForcedLineBreak) {
			text := cleanText(frag)
			if text == "" {
				continue
			}
			switch whatlanggo.DetectScript(text) {
			case unicode.Han:
				if chinese == "" {
					chinese = text
				}
			case unicode.Latin:
				if english == "" {
					english = text
				}
			}
		}
	}
	return chinese, english
}

var softEscapes = strings.NewReplacer(`\h`, " ", `\n`, " ", `\{`, "{", `\}`, "}")

// cleanText strips trailing forced line breaks and surrounding space, and
// replaces the remaining soft escapes.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasSuffix(s, ass.ForcedLineBreak) {
		s = strings.TrimSpace(strings.TrimSuffix(s, ass.ForcedLineBreak))
	}
	s = strings.ReplaceAll(s, ass.ForcedLineBreak, " ")
	return strings.TrimSpace(softEscapes.Replace(s))
}
