package llm

import (
	"regexp"
	"strings"
)

// echoMarkers are scanned in this fixed order; the first marker found wins
// even if a later one occurs earlier in the text. Granite models sometimes
// echo the prompt or invent follow-up examples after their answer.
var echoMarkers = []string{
	"Prompt:",
	"Example:",
	"Another example:",
	"Your response:",
	"Analyze this banking transaction",
	"Provide your response in EXACTLY this format",
}

// metaPhrases are boilerplate lead-ins stripped from the start of a response.
var metaPhrases = []string{
	"Here is the analysis:",
	"Here's the analysis:",
	"Here is my analysis:",
	"Here is the response:",
	"Analysis:",
	"Response:",
}

// emptyListStub matches a line containing only a list number, e.g. "2.".
var emptyListStub = regexp.MustCompile(`(?m)^\s*\d+\.\s*$`)

// Clean strips prompt-echo artifacts, leading meta-phrases, and empty
// numbered-list stubs from raw generation output.
func Clean(raw string) string {
	text := strings.TrimSpace(raw)

	for _, marker := range echoMarkers {
		if idx := strings.Index(text, marker); idx >= 0 {
			text = strings.TrimSpace(text[:idx])
			break
		}
	}

	for _, phrase := range metaPhrases {
		if strings.HasPrefix(text, phrase) {
			text = strings.TrimSpace(strings.TrimPrefix(text, phrase))
			break
		}
	}

	text = emptyListStub.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
