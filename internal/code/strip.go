// Package code post-processes extracted code: heuristic comment stripping and
// interpreter-line handling for the handful of languages an LLM is usually
// asked to write. Stripping is pattern- and line-based on purpose. A real
// lexer would behave differently on the malformed snippets models produce,
// and the blind spots (escaped quotes, multi-line strings, comment-like text
// inside non-python strings) are accepted.
package code

import (
	"regexp"
	"strings"
)

var (
	reDocstringDouble = regexp.MustCompile(`(?ms)^\s*""".*?"""\s*$`)
	reDocstringSingle = regexp.MustCompile(`(?ms)^\s*'''.*?'''\s*$`)
	reLineComment     = regexp.MustCompile(`(?m)//.*$`)
	reBlockComment    = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reBlankRun        = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// StripComments removes comments from src according to lang, matched
// case-insensitively. With an empty lang the language is inferred from the
// code itself; when inference fails too, the code passes through untouched.
// Runs of more than two consecutive blank lines collapse to a single blank
// line regardless of language.
func StripComments(src, lang string) string {
	if lang == "" {
		lang = inferStripLanguage(src)
	}

	switch strings.ToLower(lang) {
	case "python", "py":
		src = stripPython(src)
	case "bash", "sh", "shell":
		src = stripBash(src)
	case "javascript", "js", "typescript", "ts":
		src = stripSlashComments(src)
	}

	return reBlankRun.ReplaceAllString(src, "\n\n")
}

// inferStripLanguage guesses python or bash from a shebang or from python
// keywords. Anything else stays unresolved.
func inferStripLanguage(src string) string {
	trimmed := strings.TrimSpace(src)

	switch {
	case strings.HasPrefix(trimmed, "#!/usr/bin/env python"),
		strings.Contains(src, "import "),
		strings.Contains(src, "def "):
		return "python"
	case strings.HasPrefix(trimmed, "#!/bin/bash"),
		strings.HasPrefix(trimmed, "#!/bin/sh"):
		return "bash"
	}

	return ""
}

func stripPython(src string) string {
	lines := strings.Split(src, "\n")

	for i, line := range lines {
		if i == 0 && isShebang(line) {
			continue
		}

		// Untouched lines keep their trailing whitespace; only lines that
		// went through the scan are right-trimmed.
		if strings.Contains(line, "#") {
			lines[i] = strings.TrimRight(cutHashComment(line), " \t\r")
		}
	}

	out := strings.Join(lines, "\n")
	out = reDocstringDouble.ReplaceAllString(out, "")
	out = reDocstringSingle.ReplaceAllString(out, "")

	return out
}

// cutHashComment truncates line at the first '#' that is not inside a
// quoted string. String state is a per-line toggle: a quote character not
// immediately preceded by a backslash enters a string, and only the same
// quote character leaves it. Multi-line strings and escaped-quote corner
// cases are out of scope for the toggle.
func cutHashComment(line string) string {
	var (
		inString bool
		quote    byte
	)

	for j := 0; j < len(line); j++ {
		c := line[j]

		if (c == '"' || c == '\'') && (j == 0 || line[j-1] != '\\') {
			switch {
			case !inString:
				inString = true
				quote = c
			case c == quote:
				inString = false
			}
		}

		if c == '#' && !inString {
			return line[:j]
		}
	}

	return line
}

func stripBash(src string) string {
	lines := strings.Split(src, "\n")

	for i, line := range lines {
		if i == 0 && isShebang(line) {
			continue
		}

		// No string awareness for shell: everything from '#' on goes.
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			lines[i] = strings.TrimRight(line[:idx], " \t\r")
		}
	}

	return strings.Join(lines, "\n")
}

func stripSlashComments(src string) string {
	src = reLineComment.ReplaceAllString(src, "")

	return reBlockComment.ReplaceAllString(src, "")
}

func isShebang(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#!")
}
