package speech

import (
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

var (
	markdownLink   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	htmlTag        = regexp.MustCompile(`<[^>]*>`)
	tableSeparator = regexp.MustCompile(`^\s*\|\s*[-=\s]+\|\s*$`)
	markdownMarks  = strings.NewReplacer("*", "", "#", "", "_", "", "~", "", "`", "", "[", "", "]", "")
)

// CleanText strips markdown and markup that a TTS engine would read aloud.
func CleanText(text string) string {
	text = markdownLink.ReplaceAllString(text, "$1")
	text = htmlTag.ReplaceAllString(text, "")
	text = markdownMarks.Replace(text)

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if tableSeparator.MatchString(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, strings.ReplaceAll(line, "|", ""))
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// Splitter breaks a reply into sentences so long answers are synthesized in
// small requests.
type Splitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewSplitter() (*Splitter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &Splitter{tokenizer: tokenizer}, nil
}

// Split returns the cleaned, non-empty sentences of text in order.
func (s *Splitter) Split(text string) []string {
	var out []string
	for _, sentence := range s.tokenizer.Tokenize(text) {
		if cleaned := CleanText(sentence.Text); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
