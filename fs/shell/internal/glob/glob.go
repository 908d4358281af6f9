// Package glob compiles "syntax:pattern" strings into regular expressions
// that match whole path strings.
package glob

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrMissingSyntax is returned when the input has no "syntax:" prefix.
	ErrMissingSyntax = errors.New("pattern must be of the form 'syntax:pattern'")

	// ErrUnsupportedSyntax is returned for syntaxes other than glob and regex.
	ErrUnsupportedSyntax = errors.New("unsupported pattern syntax")
)

// PatternError reports a malformed glob.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid glob %q: %s", e.Pattern, e.Reason)
}

// Compile parses syntaxAndPattern and returns a regular expression that
// must match a path string in full. The syntax name is case-insensitive.
func Compile(syntaxAndPattern string) (*regexp.Regexp, error) {
	syntax, pattern, ok := strings.Cut(syntaxAndPattern, ":")
	if !ok {
		return nil, ErrMissingSyntax
	}

	var expr string
	switch strings.ToLower(syntax) {
	case "glob":
		var err error
		if expr, err = Translate(pattern); err != nil {
			return nil, err
		}
	case "regex":
		expr = `^(?:` + pattern + `)$`
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSyntax, syntax)
	}

	return regexp.Compile(expr)
}

// Translate converts a glob into an anchored regular expression.
//
//	**      any characters including '/'
//	*       any characters except '/'
//	?       any single character
//	{a,b}   alternation
//	[...]   character class, negated by a leading '!'
//	\x      literal x
//
// A leading '^' in a class is not negation: it is moved to the end of the
// class and matches a literal '^'.
func Translate(pattern string) (string, error) {
	var b strings.Builder
	b.WriteByte('^')

	chars := []rune(pattern)
	for i := 0; i < len(chars); i++ {
		c := chars[i]
		switch c {
		case '*':
			if i+1 < len(chars) && chars[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteByte('.')
		case '{':
			b.WriteString("(?:")
			for {
				i++
				if i >= len(chars) {
					return "", &PatternError{Pattern: pattern, Reason: "unclosed alternation"}
				}
				c = chars[i]
				if c == '}' {
					break
				}
				if c == ',' {
					b.WriteByte('|')
				} else {
					b.WriteRune(c)
				}
			}
			b.WriteByte(')')
		case '[':
			b.WriteByte('[')
			first, caret := true, false
			for {
				i++
				if i >= len(chars) {
					return "", &PatternError{Pattern: pattern, Reason: "unclosed range"}
				}
				c = chars[i]
				if first {
					first = false
					switch c {
					case '!':
						b.WriteByte('^')
					case '^':
						caret = true
					default:
						b.WriteRune(c)
					}
					continue
				}
				if c == ']' {
					break
				}
				if c == '\\' {
					b.WriteString(`\\`)
				} else {
					b.WriteRune(c)
				}
			}
			if caret {
				b.WriteByte('^')
			}
			b.WriteByte(']')
		case '\\':
			i++
			if i >= len(chars) {
				return "", &PatternError{Pattern: pattern, Reason: "trailing escape"}
			}
			b.WriteString(regexp.QuoteMeta(string(chars[i])))
		case '.', '+', '(':
			b.WriteByte('\\')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}

	b.WriteByte('$')
	return b.String(), nil
}
