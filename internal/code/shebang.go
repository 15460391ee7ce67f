package code

import "strings"

// EnsureShebang prepends a canonical interpreter line to src when it does not
// already start with one. With an empty lang the language is inferred from
// keywords; when neither a language nor a shebang can be determined, src is
// returned unmodified.
func EnsureShebang(src, lang string) string {
	first, _, _ := strings.Cut(src, "\n")
	if isShebang(first) {
		return src
	}

	if lang == "" {
		lang = inferByKeywords(src)
	}

	shebang := shebangFor(lang)
	if shebang == "" {
		return src
	}

	return shebang + "\n" + src
}

// inferByKeywords guesses a language from substrings typical for it. The
// checks are ordered python, javascript, bash; ambiguous snippets always
// resolve to the earliest match.
func inferByKeywords(src string) string {
	switch {
	case containsAny(src, "import ", "def ", "class "):
		return "python"
	case containsAny(src, "function ", "const ", "let "):
		return "javascript"
	case containsAny(src, "echo ", "[[", "if ["):
		return "bash"
	}

	return ""
}

func shebangFor(lang string) string {
	switch strings.ToLower(lang) {
	case "python", "py":
		return "#!/usr/bin/env python3"
	case "bash", "sh", "shell":
		return "#!/bin/bash"
	case "javascript", "js", "node":
		return "#!/usr/bin/env node"
	case "ruby", "rb":
		return "#!/usr/bin/env ruby"
	case "perl", "pl":
		return "#!/usr/bin/env perl"
	case "php":
		return "#!/usr/bin/env php"
	}

	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}
