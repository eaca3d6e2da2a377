package utils

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// ProfanityFilter detects and masks banned words.
// ASCII words are matched case-insensitively on word boundaries, anything else
// as a plain substring.
type ProfanityFilter struct {
	patterns []*regexp.Regexp
}

// DefaultBannedWords is a starter list. Extend via PROFANITY_WORDS.
var DefaultBannedWords = []string{
	"fuck", "fucking", "fucker", "motherfucker", "shit", "bullshit",
	"bastard", "bitch", "sonofabitch", "dick", "cock", "pussy", "cunt",
	"asshole", "dumbass", "jackass", "retard", "slut", "whore",
	"nigger", "faggot", "crap", "douche", "douchebag",
	"wanker", "twat", "prick", "arsehole", "bugger", "bollocks",
	"damn", "dammit", "piss", "pissed",
	"cocksucker", "ballsack", "nutsack", "buttfuck", "butthole", "shithead",
	"shitface", "dipshit", "dumbfuck", "numbnuts", "cum", "cumshot",
	"dildo", "porn", "orgasm", "rapist", "rape", "deepthroat",
	"jerkoff", "masturbate", "wank", "handjob", "blowjob",
	"fuckface", "shitbag", "cockhead", "pisshead", "shag", "tosser",
}

// ParseWordList splits a comma separated list, dropping blanks.
func ParseWordList(s string) []string {
	var out []string
	for _, w := range strings.Split(s, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// NewProfanityFilter builds a filter from DefaultBannedWords plus extra.
func NewProfanityFilter(extra ...string) *ProfanityFilter {
	words := make([]string, 0, len(DefaultBannedWords)+len(extra))
	words = append(words, DefaultBannedWords...)
	words = append(words, extra...)
	return NewProfanityFilterFrom(words)
}

// NewProfanityFilterFrom builds a filter from exactly the given words.
func NewProfanityFilterFrom(words []string) *ProfanityFilter {
	uniq := make([]string, 0, len(words))
	seen := map[string]struct{}{}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		uniq = append(uniq, w)
	}
	// longest first so a short word never masks part of a longer one
	sort.Slice(uniq, func(i, j int) bool {
		return len([]rune(uniq[i])) > len([]rune(uniq[j]))
	})
	pats := make([]*regexp.Regexp, 0, len(uniq))
	for _, w := range uniq {
		pattern := regexp.QuoteMeta(w)
		if isASCIIWord(w) {
			pattern = `(?i)\b` + pattern + `\b`
		}
		pats = append(pats, regexp.MustCompile(pattern))
	}
	return &ProfanityFilter{patterns: pats}
}

func (pf *ProfanityFilter) IsProfane(s string) bool {
	if pf == nil || s == "" {
		return false
	}
	for _, re := range pf.patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Mask replaces every match with '*' of the same rune length.
func (pf *ProfanityFilter) Mask(s string) string {
	if pf == nil || len(pf.patterns) == 0 || s == "" {
		return s
	}
	out := s
	for _, re := range pf.patterns {
		out = re.ReplaceAllStringFunc(out, func(m string) string {
			return strings.Repeat("*", len([]rune(m)))
		})
	}
	return out
}

func isASCIIWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			return false
		}
	}
	return true
}
