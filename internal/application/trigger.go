package application

import (
	"regexp"
	"strconv"
	"strings"
)

// TriggerRule names the rule that decided whether a transcript needs a web search.
type TriggerRule string

const (
	RuleNone         TriggerRule = "none"
	RuleKeyword      TriggerRule = "keyword"
	RuleYear         TriggerRule = "year"
	RuleQuestionWord TriggerRule = "question_word"
)

// TriggerConfig is the data behind the search trigger. Extend the lists rather
// than adding rules.
type TriggerConfig struct {
	Keywords      []string
	MinYear       int
	MaxYear       int
	QuestionWords []string
}

func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		Keywords: []string{
			"search", "find", "what's happening", "latest", "news",
			"current", "today", "recent", "weather", "stock",
			"price", "update", "information about", "who won", "who is", "who was", "who are", "who did",
		},
		MinYear:       2020,
		MaxYear:       2039,
		QuestionWords: []string{"who", "what", "when", "where", "why", "how"},
	}
}

// Decision is the verdict of SearchTrigger.Evaluate.
type Decision struct {
	Search bool
	Rule   TriggerRule
	Match  string
}

type triggerRule struct {
	name  TriggerRule
	match func(text string) (string, bool)
}

var yearToken = regexp.MustCompile(`\b\d{4}\b`)

// SearchTrigger decides whether a transcript should be answered with web
// search results. Rules are evaluated in order and the first match wins.
// A SearchTrigger is immutable and safe for concurrent use.
type SearchTrigger struct {
	rules []triggerRule
}

func NewSearchTrigger(cfg TriggerConfig) *SearchTrigger {
	t := &SearchTrigger{}

	if keywords := normalizeWords(cfg.Keywords); len(keywords) > 0 {
		t.rules = append(t.rules, triggerRule{name: RuleKeyword, match: keywordMatcher(keywords)})
	}
	if cfg.MinYear > 0 && cfg.MaxYear >= cfg.MinYear {
		t.rules = append(t.rules, triggerRule{name: RuleYear, match: yearMatcher(cfg.MinYear, cfg.MaxYear)})
	}
	if words := normalizeWords(cfg.QuestionWords); len(words) > 0 {
		t.rules = append(t.rules, triggerRule{name: RuleQuestionWord, match: questionMatcher(words)})
	}

	return t
}

func (t *SearchTrigger) Evaluate(text string) Decision {
	for _, rule := range t.rules {
		if match, ok := rule.match(text); ok {
			return Decision{Search: true, Rule: rule.name, Match: match}
		}
	}
	return Decision{Rule: RuleNone}
}

func (t *SearchTrigger) NeedsSearch(text string) bool {
	return t.Evaluate(text).Search
}

func keywordMatcher(keywords []string) func(string) (string, bool) {
	return func(text string) (string, bool) {
		lower := strings.ToLower(text)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return kw, true
			}
		}
		return "", false
	}
}

func yearMatcher(minYear, maxYear int) func(string) (string, bool) {
	return func(text string) (string, bool) {
		for _, token := range yearToken.FindAllString(text, -1) {
			year, err := strconv.Atoi(token)
			if err != nil {
				continue
			}
			if year >= minYear && year <= maxYear {
				return token, true
			}
		}
		return "", false
	}
}

func questionMatcher(words []string) func(string) (string, bool) {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`^(` + strings.Join(quoted, "|") + `)\b`)

	return func(text string) (string, bool) {
		normalized := strings.ToLower(strings.TrimSpace(text))
		if m := re.FindStringSubmatch(normalized); m != nil {
			return m[1], true
		}
		return "", false
	}
}

// normalizeWords lower-cases and trims the list, dropping blanks: an empty
// keyword would match every transcript.
func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
