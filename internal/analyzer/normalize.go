package analyzer

import (
	"encoding/json"
	"strings"
)

// transcript mirrors the --json output of the analysis CLI: a session
// transcript with an ordered messages sequence.
type transcript struct {
	Messages []transcriptMessage `json:"messages"`
}

type transcriptMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Normalize extracts a human-readable summary from the raw backend output.
// It never fails: structured output yields the text of the last assistant
// message (text parts joined by newlines), and anything malformed, from
// plain text to JSON without a usable assistant message, degrades to the
// raw text verbatim.
func Normalize(raw string) string {
	var t transcript
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return raw
	}

	for i := len(t.Messages) - 1; i >= 0; i-- {
		msg := t.Messages[i]
		if msg.Role != "assistant" {
			continue
		}
		var texts []string
		for _, part := range msg.Content {
			if part.Type == "text" {
				texts = append(texts, part.Text)
			}
		}
		if joined := strings.Join(texts, "\n"); strings.TrimSpace(joined) != "" {
			return joined
		}
		// The last assistant message carries no text; treat the whole
		// transcript as unusable rather than searching earlier turns.
		break
	}

	return raw
}
