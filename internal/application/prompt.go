package application

import (
	"context"
	"fmt"
)

// WebSearcher looks a query up on the web and returns a text summary of the results.
type WebSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

const searchFallbackFormat = "I couldn't search the web right now. Error: %s"

// searchOutcome is the result of the search step. A failed search is not an
// error for the turn: degraded is set and text carries the apology instead.
type searchOutcome struct {
	text     string
	degraded bool
}

func searchFallback(err error) searchOutcome {
	return searchOutcome{
		text:     fmt.Sprintf(searchFallbackFormat, err.Error()),
		degraded: true,
	}
}

// AugmentedPrompt embeds search results ahead of the user's question and tells
// the model to answer from them.
func AugmentedPrompt(question, results string) string {
	return fmt.Sprintf(`Based on the following web search results, please provide a comprehensive answer:

Web Search Results:
%s

Original Question: %s

Please provide a clear, concise answer based on the search results above.`, results, question)
}
