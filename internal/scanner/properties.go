package scanner

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resource"
)

// parseProperties reads a .properties bundle. Every entry becomes a string
// declaration. Supported syntax: '#' and '!' comments, '=', ':' or
// whitespace separators, backslash line continuations and \uXXXX escapes.
func parseProperties(data []byte, file string) ([]rawDecl, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")
	physical := strings.Split(text, "\n")

	var out []rawDecl
	for i := 0; i < len(physical); i++ {
		start := i + 1
		line := strings.TrimLeft(physical[i], " \t\f")
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}

		// Join continuation lines
		for continues(line) && i+1 < len(physical) {
			i++
			line = line[:len(line)-1] + strings.TrimLeft(physical[i], " \t\f")
		}
		if continues(line) {
			line = line[:len(line)-1]
		}

		rawKey, rawValue := splitProperty(line)
		loc := resource.SourceLocation{File: file, Line: start}

		key, err := unescapeProperty(rawKey)
		if err != nil {
			return nil, errors.NewMalformedFile(loc, err)
		}
		value, err := unescapeProperty(rawValue)
		if err != nil {
			return nil, errors.NewMalformedFile(loc, err)
		}

		out = append(out, rawDecl{
			key:   key,
			kind:  resource.KindString.String(),
			value: value,
			line:  start,
		})
	}
	return out, nil
}

// continues reports whether line ends in an odd number of backslashes
func continues(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// splitProperty separates the escaped key from the escaped value
func splitProperty(line string) (string, string) {
	end := len(line)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' {
			i++
			continue
		}
		if c == '=' || c == ':' || c == ' ' || c == '\t' || c == '\f' {
			end = i
			break
		}
	}
	key := line[:end]

	rest := strings.TrimLeft(line[end:], " \t\f")
	if rest != "" && (rest[0] == '=' || rest[0] == ':') {
		rest = strings.TrimLeft(rest[1:], " \t\f")
	}
	return key, rest
}

func unescapeProperty(s string) (string, error) {
	if !strings.Contains(s, "\\") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			if c != '\\' {
				b.WriteByte(c)
			}
			continue
		}
		i++
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			r, err := unicodeEscape(s, i-1)
			if err != nil {
				return "", err
			}
			i += 4
			if utf16.IsSurrogate(r) {
				// A high surrogate must be followed by an escaped low surrogate
				low, err := unicodeEscape(s, i+1)
				pair := utf16.DecodeRune(r, low)
				if err != nil || pair == unicode.ReplacementChar {
					return "", errors.Newf("unpaired surrogate %q", s[i-5:i+1])
				}
				r = pair
				i += 6
			}
			b.WriteRune(r)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

// unicodeEscape decodes the \uXXXX escape starting at s[at]
func unicodeEscape(s string, at int) (rune, error) {
	if at+6 > len(s) || s[at] != '\\' || s[at+1] != 'u' {
		if at+1 < len(s) && s[at+1] == 'u' {
			return 0, errors.Newf("truncated unicode escape %q", s[at:])
		}
		return 0, errors.Newf("missing unicode escape at offset %d", at)
	}
	r, err := strconv.ParseUint(s[at+2:at+6], 16, 32)
	if err != nil {
		return 0, errors.Newf("malformed unicode escape %q", s[at:at+6])
	}
	return rune(r), nil
}
