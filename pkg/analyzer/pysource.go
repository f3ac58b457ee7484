package analyzer

import (
	"fmt"
	"strings"
)

// pySource is the result of a lexical pass over Python source text. Logical
// lines have comments removed, string literals collapsed to empty quotes, and
// explicit/implicit line continuations joined into a single line.
type pySource struct {
	logical []string
}

// scanPySource tokenizes just enough of Python's lexical grammar for feature
// and import scanning: string literals (single and triple quoted, with
// escapes), comments, and bracket depth. It reports an error only for the
// failures it can detect honestly at this level: unterminated string literals
// and unbalanced brackets.
func scanPySource(content string) (*pySource, error) {
	var (
		lines []string
		buf   strings.Builder
		depth int
		line  = 1
	)
	runes := []rune(content)
	i := 0

	flush := func() {
		if s := strings.TrimRight(buf.String(), " \t\r"); strings.TrimSpace(s) != "" {
			lines = append(lines, s)
		}
		buf.Reset()
	}

	for i < len(runes) {
		c := runes[i]
		switch {
		case c == '#':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case c == '\'' || c == '"':
			quote := c
			triple := i+2 < len(runes) && runes[i+1] == quote && runes[i+2] == quote
			start := line
			if triple {
				i += 3
			} else {
				i++
			}
			closed := false
			for i < len(runes) {
				switch {
				case runes[i] == '\\':
					if i+1 < len(runes) && runes[i+1] == '\n' {
						line++
					}
					i += 2
				case runes[i] == '\n':
					if !triple {
						return nil, fmt.Errorf("unterminated string literal at line %d", start)
					}
					line++
					i++
				case runes[i] == quote:
					if !triple {
						i++
						closed = true
					} else if i+2 < len(runes) && runes[i+1] == quote && runes[i+2] == quote {
						i += 3
						closed = true
					} else {
						i++
					}
				default:
					i++
				}
				if closed {
					break
				}
			}
			if !closed {
				return nil, fmt.Errorf("unterminated string literal at line %d", start)
			}
			buf.WriteString(`""`)
		case c == '(' || c == '[' || c == '{':
			depth++
			buf.WriteRune(c)
			i++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q at line %d", c, line)
			}
			buf.WriteRune(c)
			i++
		case c == '\\' && i+1 < len(runes) && runes[i+1] == '\n':
			// explicit line continuation
			buf.WriteRune(' ')
			line++
			i += 2
		case c == '\n':
			line++
			i++
			if depth > 0 {
				// implicit continuation inside brackets
				buf.WriteRune(' ')
				continue
			}
			flush()
		default:
			buf.WriteRune(c)
			i++
		}
	}
	if depth > 0 {
		return nil, fmt.Errorf("unexpected end of source: %d unclosed bracket(s)", depth)
	}
	flush()
	return &pySource{logical: lines}, nil
}
