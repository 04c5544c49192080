package genai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// fencePattern matches markdown code fences with an optional language tag.
var fencePattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// ExtractJSON pulls the first JSON document out of a model response that
// may wrap it in markdown fences or surrounding prose. Fenced blocks are
// preferred; a bare object or array in the text is the fallback.
func ExtractJSON(response string) (string, error) {
	if doc, ok := fromFence(response); ok {
		return doc, nil
	}
	if doc, ok := fromText(response); ok {
		return doc, nil
	}
	return "", fmt.Errorf("no JSON document found in response")
}

// DecodeJSON extracts and unmarshals the response into T.
func DecodeJSON[T any](response string) (T, error) {
	var out T

	doc, err := ExtractJSON(response)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return out, fmt.Errorf("unmarshaling response JSON: %w", err)
	}
	return out, nil
}

func fromFence(response string) (string, bool) {
	for _, match := range fencePattern.FindAllStringSubmatch(response, -1) {
		lang := strings.ToLower(match[1])
		if lang != "" && lang != "json" {
			continue
		}
		content := strings.TrimSpace(match[2])
		if !strings.HasPrefix(content, "{") && !strings.HasPrefix(content, "[") {
			continue
		}
		if validJSON(content) {
			return content, true
		}
	}
	return "", false
}

func fromText(response string) (string, bool) {
	objAt := strings.Index(response, "{")
	arrAt := strings.Index(response, "[")

	start, closer := objAt, byte('}')
	if objAt < 0 || (arrAt >= 0 && arrAt < objAt) {
		start, closer = arrAt, ']'
	}
	if start < 0 {
		return "", false
	}

	doc := spanBalanced(response[start:], closer)
	if doc != "" && validJSON(doc) {
		return doc, true
	}
	return "", false
}

// spanBalanced returns the prefix of s up to the bracket matching s[0],
// respecting strings and escapes.
func spanBalanced(s string, closer byte) string {
	if len(s) == 0 {
		return ""
	}
	opener := s[0]

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == opener:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

func validJSON(s string) bool {
	var raw json.RawMessage
	return json.Unmarshal([]byte(s), &raw) == nil
}
