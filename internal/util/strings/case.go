// Package strings provides the word splitting and casing conventions used to
// turn raw resource keys into identifiers.
package strings

import (
	"strings"
	"unicode"
)

// Common initialisms kept fully upper-case in Go identifiers
var initialisms = map[string]string{
	"id":    "ID",
	"url":   "URL",
	"uri":   "URI",
	"uuid":  "UUID",
	"api":   "API",
	"http":  "HTTP",
	"https": "HTTPS",
	"json":  "JSON",
	"xml":   "XML",
	"html":  "HTML",
	"css":   "CSS",
	"sql":   "SQL",
	"ip":    "IP",
	"tcp":   "TCP",
	"udp":   "UDP",
	"svg":   "SVG",
	"png":   "PNG",
	"jpg":   "JPG",
	"gif":   "GIF",
	"ttf":   "TTF",
}

// IsSeparator reports whether r splits words in a raw key
func IsSeparator(r rune) bool {
	switch r {
	case '_', '-', '.', '/', '\\':
		return true
	}
	return unicode.IsSpace(r)
}

// SplitWords breaks s into lower-case words.
// Separators end a word, a lower-to-upper transition starts one
// (appName -> app, name), an acronym ends before its last capital when a
// lower-case letter follows (HTTPServer -> http, server). Runes that are
// neither letters, digits nor separators are dropped.
func SplitWords(s string) []string {
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case IsSeparator(r):
			flush()
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && len(cur) > 0 {
				prev := cur[len(cur)-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					flush()
				}
			}
			cur = append(cur, r)
		}
	}
	flush()

	return words
}

// ToPascalCase joins words as PascalCase, optionally upper-casing initialisms
func ToPascalCase(words []string, useInitialisms bool) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(capitalize(w, useInitialisms))
	}
	return b.String()
}

// ToCamelCase joins words as camelCase; the first word stays lower-case
func ToCamelCase(words []string, useInitialisms bool) string {
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(w)
			continue
		}
		b.WriteString(capitalize(w, useInitialisms))
	}
	return b.String()
}

// ToUpperSnakeCase joins words as UPPER_SNAKE_CASE
func ToUpperSnakeCase(words []string) string {
	return strings.ToUpper(strings.Join(words, "_"))
}

// ToSnakeCase converts a raw key or CamelCase name to snake_case
// (HTTPRequest -> http_request, app-name -> app_name)
func ToSnakeCase(s string) string {
	return strings.Join(SplitWords(s), "_")
}

func capitalize(w string, useInitialisms bool) string {
	if w == "" {
		return w
	}
	if useInitialisms {
		if upper, ok := initialisms[w]; ok {
			return upper
		}
	}
	runes := []rune(w)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
