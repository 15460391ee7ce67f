// Package fence extracts fenced code blocks from markdown text without
// parsing the surrounding document. LLM output is frequently not well-formed
// markdown, so extraction is a plain pattern scan: prose, broken fences and
// stray formatting pass through it predictably.
package fence

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// Block is a single fenced code block: the language word from the opening
// fence (empty when the fence is untagged) and the raw text between the
// fences.
type Block struct {
	Lang string
	Code string
}

// StatusFunc receives human-readable diagnostics. [Extract] and [ExtractAll]
// report through it rather than writing to a stream themselves.
type StatusFunc func(format string, args ...interface{})

// A fence opens with three backticks, optionally followed immediately by a
// language word, and a newline. The body is non-greedy so the first closing
// fence terminates the block; a fence with no closing fence never matches.
var reBlock = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")

// Scan returns every fenced code block in text, in order of appearance.
func Scan(text string) []Block {
	matches := reBlock.FindAllStringSubmatch(text, -1)

	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{Lang: m[1], Code: m[2]})
	}

	return blocks
}

// Match reports whether a block's language tag satisfies the filter pattern.
// Matching is case-insensitive, and the pattern may be a glob ("py*"). An
// empty pattern matches every block; a pattern that fails to compile falls
// back to plain case-insensitive equality.
func Match(pattern, tag string) bool {
	if pattern == "" {
		return true
	}

	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return strings.EqualFold(pattern, tag)
	}

	return g.Match(strings.ToLower(tag))
}

// Extract returns the first fenced code block in text together with its
// detected language. When the text holds no fenced blocks at all it is
// returned unchanged, so piping plain text through is a no-op. When blocks
// exist but none matches lang, a diagnostic goes to status and the returned
// code is empty. The detected language is the block's own tag, falling back
// to lang for untagged blocks.
func Extract(text, lang string, status StatusFunc) (string, string) {
	blocks := Scan(text)
	if len(blocks) == 0 {
		return text, lang
	}

	for _, b := range blocks {
		if !Match(lang, b.Lang) {
			continue
		}

		detected := b.Lang
		if detected == "" {
			detected = lang
		}

		return strings.TrimSpace(b.Code), detected
	}

	report(status, "No code blocks found for language: %s\n", lang)

	return "", lang
}

// ExtractAll returns every matching block, trimmed and joined with a single
// blank line, ignoring per-block tags in favor of lang. Unlike [Extract]
// there is no pass-through: text without matching blocks yields empty code,
// with a diagnostic when a language filter was given.
func ExtractAll(text, lang string, status StatusFunc) (string, string) {
	var parts []string

	for _, b := range Scan(text) {
		if Match(lang, b.Lang) {
			parts = append(parts, strings.TrimSpace(b.Code))
		}
	}

	if len(parts) == 0 {
		if lang != "" {
			report(status, "No code blocks found for language: %s\n", lang)
		}

		return "", lang
	}

	return strings.Join(parts, "\n\n"), lang
}

func report(status StatusFunc, format string, args ...interface{}) {
	if status != nil {
		status(format, args...)
	}
}
