package seed

import "strings"

// Split breaks a SQL script into individual statements on top-level
// semicolons. Semicolons inside string literals, quoted identifiers,
// dollar-quoted bodies and comments do not terminate a statement. Comments
// are dropped from the output and blank statements are skipped.
func Split(script string) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if stmt := strings.TrimSpace(cur.String()); stmt != "" {
			out = append(out, stmt)
		}
		cur.Reset()
	}

	n := len(script)
	for i := 0; i < n; {
		c := script[i]
		switch {
		case c == '-' && i+1 < n && script[i+1] == '-':
			end := strings.IndexByte(script[i:], '\n')
			if end < 0 {
				i = n
			} else {
				i += end
			}
			cur.WriteByte(' ')

		case c == '/' && i+1 < n && script[i+1] == '*':
			i = skipBlockComment(script, i)
			cur.WriteByte(' ')

		case c == '\'':
			end := quotedEnd(script, i, '\'', escapeString(script, i))
			cur.WriteString(script[i:end])
			i = end

		case c == '"':
			end := quotedEnd(script, i, '"', false)
			cur.WriteString(script[i:end])
			i = end

		case c == '$':
			if tag, ok := dollarTag(script, i); ok {
				end := strings.Index(script[i+len(tag):], tag)
				if end < 0 {
					cur.WriteString(script[i:])
					i = n
				} else {
					stop := i + len(tag) + end + len(tag)
					cur.WriteString(script[i:stop])
					i = stop
				}
				continue
			}
			cur.WriteByte(c)
			i++

		case c == ';':
			flush()
			i++

		default:
			cur.WriteByte(c)
			i++
		}
	}
	flush()
	return out
}

// skipBlockComment returns the index just past the comment opening at i.
// PostgreSQL block comments nest.
func skipBlockComment(s string, i int) int {
	depth := 0
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "/*"):
			depth++
			i += 2
		case strings.HasPrefix(s[i:], "*/"):
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return i
}

// quotedEnd returns the index just past the literal opening at i. A doubled
// quote is an escaped quote; backslashes escape only in E'' strings.
func quotedEnd(s string, i int, quote byte, backslash bool) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			if backslash {
				j++
			}
		case quote:
			if j+1 < len(s) && s[j+1] == quote {
				j++
				continue
			}
			return j + 1
		}
	}
	return len(s)
}

// escapeString reports whether the quote at i opens an E'' literal.
func escapeString(s string, i int) bool {
	if i == 0 || (s[i-1] != 'E' && s[i-1] != 'e') {
		return false
	}
	return i < 2 || !isIdentByte(s[i-2])
}

// dollarTag returns the $tag$ opening at i. Positional parameters such as $1
// and dollars inside identifiers are not tags.
func dollarTag(s string, i int) (string, bool) {
	if i > 0 && isIdentByte(s[i-1]) {
		return "", false
	}
	j := i + 1
	for j < len(s) && s[j] != '$' {
		if !isIdentByte(s[j]) || (j == i+1 && isDigit(s[j])) {
			return "", false
		}
		j++
	}
	if j >= len(s) {
		return "", false
	}
	return s[i : j+1], true
}

func isIdentByte(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
