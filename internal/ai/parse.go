package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrMalformedResponse means no parsable JSON object could be recovered from
// the model output, even after cleanup.
var ErrMalformedResponse = errors.New("invalid JSON in LLM response")

// PlatformContent is one generated post plus its length.
type PlatformContent struct {
	Text           string `json:"text"`
	CharacterCount int    `json:"character_count"`
}

var fencedJSON = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")

// extractJSON pulls the JSON payload out of a model response. Preference
// order: a fenced json block, then the outermost brace-delimited span.
func extractJSON(content string) (string, error) {
	if m := fencedJSON.FindStringSubmatch(content); m != nil {
		return m[1], nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: could not find JSON in LLM response", ErrMalformedResponse)
	}
	return content[start : end+1], nil
}

// decode parses the extracted JSON, retrying once with newlines stripped.
// Models sometimes emit raw line breaks inside string literals.
func decode(jsonStr string, v any) error {
	if err := json.Unmarshal([]byte(jsonStr), v); err == nil {
		return nil
	}

	cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(jsonStr)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return ErrMalformedResponse
	}
	return nil
}

// ParseSocial extracts per-platform content from a model response. Every
// requested platform is present in the result: missing ones get a
// placeholder, and character counts are recomputed from the actual text
// since models routinely get them wrong.
func ParseSocial(content string, platforms []string) (map[string]PlatformContent, error) {
	jsonStr, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	result := make(map[string]PlatformContent)
	if err := decode(jsonStr, &result); err != nil {
		return nil, err
	}

	for _, platform := range platforms {
		entry, ok := result[platform]
		if !ok {
			entry = PlatformContent{Text: fmt.Sprintf("[No content generated for %s]", platform)}
		}
		entry.CharacterCount = utf8.RuneCountInString(entry.Text)
		result[platform] = entry
	}
	return result, nil
}

// ParseBlog extracts the blog post from a model response, falling back to a
// placeholder when the model ignored the requested structure.
func ParseBlog(content string) (PlatformContent, error) {
	jsonStr, err := extractJSON(content)
	if err != nil {
		return PlatformContent{}, err
	}

	var result struct {
		BlogContent *PlatformContent `json:"blog_content"`
	}
	if err := decode(jsonStr, &result); err != nil {
		return PlatformContent{}, err
	}

	blog := PlatformContent{Text: "[No blog content generated]"}
	if result.BlogContent != nil {
		blog = *result.BlogContent
	}
	blog.CharacterCount = utf8.RuneCountInString(blog.Text)
	return blog, nil
}
