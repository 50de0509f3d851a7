// Package frontmatter separates YAML front matter (`---` delimited) from a
// document body and parses it into a plain map.
package frontmatter

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the content started with a front
// matter delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Split separates raw front matter from the body.
//
// If the content does not start with a `---` line, had is false and body is
// the full input. Both `\n` and `\r\n` newline styles are recognized.
func Split(content string) (raw string, body string, had bool, err error) {
	nl := detectNewline(content)

	open := "---" + nl
	if !strings.HasPrefix(content, open) {
		return "", content, false, nil
	}

	rest := content[len(open):]
	if strings.HasPrefix(rest, open) {
		// Empty front matter block.
		return "", rest[len(open):], true, nil
	}

	closeSeq := nl + "---" + nl
	idx := strings.Index(rest, closeSeq)
	if idx < 0 {
		return "", "", false, ErrMissingClosingDelimiter
	}

	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
}

// Parse splits content and unmarshals the front matter into a map.
//
// Content without front matter parses to an empty map and the unchanged
// body.
func Parse(content string) (data map[string]any, body string, err error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return nil, "", err
	}
	if !had || raw == "" {
		return map[string]any{}, body, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, "", err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, body, nil
}

func detectNewline(content string) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
