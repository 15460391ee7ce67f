package mdblock

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/shlex"
)

// Meta holds key=value metadata from a fence info string, the words after
// the language tag: ```python file=hello.py mode=755. Values may be quoted
// shell-style, the whole group may be wrapped in braces, and a JSON object
// is accepted as well.
type Meta map[string]string

// Get returns the value for name, or an empty string when absent.
func (m Meta) Get(name string) string {
	return m[name]
}

// parseInfo splits a fence info string into the language word and any
// trailing metadata.
func parseInfo(info string) (string, Meta, error) {
	info = strings.TrimSpace(info)
	if info == "" {
		return "", nil, nil
	}

	if strings.HasPrefix(info, "{") {
		meta, err := parseMeta(info)

		return "", meta, err
	}

	lang := info
	rest := ""

	if idx := strings.IndexFunc(info, unicode.IsSpace); idx >= 0 {
		lang = info[:idx]
		rest = strings.TrimSpace(info[idx:])
	}

	meta, err := parseMeta(rest)

	return lang, meta, err
}

// A quote or closing brace right after the opening brace distinguishes a
// JSON object from the {key=value ...} form.
var reJSONMeta = regexp.MustCompile(`^\s*{\s*["}]`)

func parseMeta(input string) (Meta, error) {
	if input == "" {
		return nil, nil
	}

	if reJSONMeta.MatchString(input) {
		return parseJSONMeta(input)
	}

	if strings.HasPrefix(input, "{") && strings.HasSuffix(input, "}") {
		input = strings.TrimSpace(input[1 : len(input)-1])
	}

	if input == "" {
		return nil, nil
	}

	words, err := shlex.Split(input)
	if err != nil {
		return nil, err
	}

	meta := make(Meta, len(words))

	for _, word := range words {
		if key, value, ok := strings.Cut(word, "="); ok {
			meta[key] = value
		}
	}

	return meta, nil
}

func parseJSONMeta(input string) (Meta, error) {
	var raw map[string]interface{}

	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		return nil, err
	}

	meta := make(Meta, len(raw))

	for key, value := range raw {
		if s, ok := value.(string); ok {
			meta[key] = s

			continue
		}

		meta[key] = fmt.Sprint(value)
	}

	return meta, nil
}
