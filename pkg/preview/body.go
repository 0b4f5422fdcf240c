package preview

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// BodyKind classifies the outcome of ResponseBody.
type BodyKind int

const (
	// BodyNotFound means the envelope has no JSON object marker.
	BodyNotFound BodyKind = iota
	// BodyFound means response content was extracted.
	BodyFound
	// BodyEmpty means the JSON parsed but carries no choices[0].message.content.
	BodyEmpty
	// BodyMalformed means the JSON did not parse and no content pattern matched.
	BodyMalformed
)

func (k BodyKind) String() string {
	switch k {
	case BodyNotFound:
		return "not_found"
	case BodyFound:
		return "found"
	case BodyEmpty:
		return "empty"
	case BodyMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// BodyResult is the tagged outcome of ResponseBody.
type BodyResult struct {
	Kind    BodyKind
	Content string
	// Offset is the byte offset of the JSON marker, or -1.
	Offset int
	// Fallback is set when Content came from the pattern search.
	Fallback bool
}

var (
	jsonMarker = []byte(`{"`)

	// The value runs to the next unescaped quote, or to the end of a truncated body.
	contentPattern = regexp.MustCompile(`"content"\s*:\s*"((?:[^"\\]|\\.)*)(?:"|\\?$)`)
)

// ResponseBody extracts the assistant message from a CacheEntry envelope. The
// JSON body is located by searching for the first `{"` marker; a strict parse
// is tried first and a pattern search is the fallback for truncated or
// trailing-garbage payloads.
func ResponseBody(field []byte) BodyResult {
	start := bytes.Index(field, jsonMarker)
	if start < 0 {
		return BodyResult{Kind: BodyNotFound, Offset: -1}
	}

	text := strings.ToValidUTF8(string(field[start:]), "�")

	// Decoding into any fails only on syntax errors, so valid JSON of an
	// unexpected shape never reaches the pattern search.
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err == nil {
		if content, ok := messageContent(doc); ok {
			return BodyResult{Kind: BodyFound, Content: content, Offset: start}
		}
		return BodyResult{Kind: BodyEmpty, Offset: start}
	}

	m := contentPattern.FindStringSubmatch(text)
	if m == nil {
		return BodyResult{Kind: BodyMalformed, Offset: start}
	}
	return BodyResult{Kind: BodyFound, Content: unescape(m[1]), Offset: start, Fallback: true}
}

// messageContent returns choices[0].message.content when it is a string.
func messageContent(doc any) (string, bool) {
	top, ok := doc.(map[string]any)
	if !ok {
		return "", false
	}
	choices, ok := top["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	message, ok := choice["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := message["content"].(string)
	return content, ok
}

// unescape decodes JSON string escapes, returning raw unchanged if they are invalid.
func unescape(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var s string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err != nil {
		return raw
	}
	return s
}
