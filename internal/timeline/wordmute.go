package timeline

import (
	"Petrel/internal/model"
	"regexp"
	"strings"
)

// A word mute rule is a list of tokens that must all appear in the note for
// the rule to fire. Any one firing rule hides the note. Matching is
// case-insensitive and looks at the note text, its warning, and quoted
// content.

func muteHaystack(n *model.Note) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{n.Text, n.CW, n.RenoteText, n.RenoteCW} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}

func matchesWordMute(n *model.Note, rules [][]string, patterns []*regexp.Regexp) bool {
	haystack := muteHaystack(n)
	if haystack == "" {
		return false
	}

	for _, rule := range rules {
		if len(rule) == 0 {
			continue
		}
		matched := true
		for _, token := range rule {
			if !strings.Contains(haystack, strings.ToLower(token)) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}

	for _, re := range patterns {
		if re.MatchString(haystack) {
			return true
		}
	}
	return false
}

// compilePatterns turns stored "/body/flags" strings into regexps. Only the i
// flag carries over; anything malformed is skipped rather than failing the
// whole read.
func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if !strings.HasPrefix(p, "/") {
			continue
		}
		end := strings.LastIndex(p, "/")
		if end <= 0 {
			continue
		}
		body := p[1:end]
		flags := p[end+1:]
		if strings.Contains(flags, "i") {
			body = "(?i)" + body
		}
		re, err := regexp.Compile(body)
		if err != nil {
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}
