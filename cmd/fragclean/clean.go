package main

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// gender is the normalized audience label written to the catalog.
type gender string

const (
	genderMale   gender = "Male"
	genderFemale gender = "Female"
	genderUnisex gender = "Unisex"
)

var (
	femalePatterns = compileAll(
		`\bfor women\b`, `\bfor woman\b`, `\bfor her\b`,
		`\bfemme\b`, `\bpour femme\b`, `\bwomen'?s\b`, `\bwomen\b`, `\bwoman\b`,
		`\bdonna\b`, `\bfemmes?\b`,
	)
	malePatterns = compileAll(
		`\bfor men\b`, `\bfor man\b`, `\bfor him\b`,
		`\bhomme\b`, `\bpour homme\b`, `\bmen'?s\b`, `\bmen\b`, `\bman\b`,
		`\buomo\b`, `\bhommes?\b`,
	)
	unisexPatterns = compileAll(
		`\bunisex\b`, `\bshared\b`, `\buniversal\b`, `\bfor (?:both|all)\b`,
		`\bfor women and men\b`, `\bfor men and women\b`, `\bfor (?:him|her)\b`, `\bfor her and him\b`,
	)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// inferGender standardizes the audience label. Priority: explicit
// dataset gender, then description hints, then name hints, else Unisex.
func inferGender(rawGender, nameHint, descHint string) gender {
	g := strings.ToLower(strings.TrimSpace(rawGender))
	n := strings.ToLower(strings.TrimSpace(nameHint))
	d := strings.ToLower(strings.TrimSpace(descHint))

	switch {
	case anyMatch(unisexPatterns, g):
		return genderUnisex
	case anyMatch(malePatterns, g) || g == "male" || g == "m":
		return genderMale
	case anyMatch(femalePatterns, g) || g == "female" || g == "f":
		return genderFemale
	}

	switch {
	case anyMatch(unisexPatterns, d):
		return genderUnisex
	case anyMatch(malePatterns, d):
		return genderMale
	case anyMatch(femalePatterns, d):
		return genderFemale
	}

	switch {
	case anyMatch(unisexPatterns, n):
		return genderUnisex
	case anyMatch(malePatterns, n):
		return genderMale
	case anyMatch(femalePatterns, n):
		return genderFemale
	}

	return genderUnisex
}

var (
	trailingIDPattern = regexp.MustCompile(`-\d+$`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	sentenceEnd       = regexp.MustCompile(`[.!?]\s`)
)

// parseBrandNameFromURL extracts brand and perfume from a Fragrantica
// product URL:
//
//	https://www.fragrantica.com/perfume/<Brand>/<Perfume>-<id>.html
//
// Returns empty strings when the URL does not match that shape.
func parseBrandNameFromURL(rawURL string) (string, string) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", ""
	}
	path, err := url.PathUnescape(u.Path)
	if err != nil {
		path = u.Path
	}

	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 3 || !strings.EqualFold(parts[0], "perfume") {
		return "", ""
	}

	brand := strings.TrimSpace(strings.ReplaceAll(parts[1], "-", " "))
	perfumeSeg := strings.TrimSuffix(parts[2], ".html")
	perfumeSeg = trailingIDPattern.ReplaceAllString(perfumeSeg, "")
	perfume := strings.ReplaceAll(perfumeSeg, "-", " ")

	return titleWords(brand), titleWords(perfume)
}

// titleWords capitalizes each word, keeping apostrophes intact.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// fallbackBrandName splits the first token as brand, the remainder as
// name. Not perfect, but better than Unknown.
func fallbackBrandName(name string) (string, string) {
	toks := strings.Fields(strings.TrimSpace(name))
	switch len(toks) {
	case 0:
		return "Unknown", ""
	case 1:
		return toks[0], toks[0]
	default:
		return toks[0], strings.Join(toks[1:], " ")
	}
}

// normalizeAccords converts "/" and "," separators to "|", trims
// whitespace around separators, and lowercases the result.
func normalizeAccords(s string) string {
	s = strings.ReplaceAll(s, "/", "|")
	s = strings.ReplaceAll(s, ",", "|")
	parts := strings.Split(s, "|")
	cleaned := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.ToLower(strings.Join(cleaned, "|"))
}

// oneLiner returns a compact single-line description capped at 240 chars.
func oneLiner(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if loc := sentenceEnd.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	text = whitespacePattern.ReplaceAllString(text, " ")
	runes := []rune(text)
	if len(runes) > 240 {
		runes = runes[:240]
	}
	return string(runes)
}
