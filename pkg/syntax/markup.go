package syntax

import "strings"

// IsMarkupFragment is a structural check, not a parse: it reports whether
// text contains at least one balanced markup tag, either self-closing
// (<Foo />) or an opening tag followed later by its matching closing tag.
// Text and expression runs around the tag need not form valid markup.
func IsMarkupFragment(text string) bool {
	var open []string
	for i := 0; i < len(text); i++ {
		if text[i] != '<' || i+1 >= len(text) {
			continue
		}
		next := text[i+1]
		switch {
		case next == '/':
			name, end := scanTagName(text, i+2)
			close := strings.IndexByte(text[end:], '>')
			if close < 0 {
				return false
			}
			for j := len(open) - 1; j >= 0; j-- {
				if open[j] == name {
					return true
				}
			}
			i = end + close
		case next == '>' || isTagStart(next):
			name, end := scanTagName(text, i+1)
			close, selfClosing, ok := scanTagEnd(text, end)
			if !ok {
				return false
			}
			if selfClosing {
				return true
			}
			open = append(open, name)
			i = close
		}
	}
	return false
}

func isTagStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isTagChar(c byte) bool {
	return isTagStart(c) || c >= '0' && c <= '9' || c == '.' || c == '-' || c == ':' || c == '_' || c == '$'
}

func scanTagName(text string, i int) (string, int) {
	start := i
	for i < len(text) && isTagChar(text[i]) {
		i++
	}
	return text[start:i], i
}

// scanTagEnd finds the '>' closing an opening tag, skipping attribute
// strings and {expression} containers.
func scanTagEnd(text string, i int) (int, bool, bool) {
	depth := 0
	var quote byte
	for ; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
		case c == '>' && depth == 0:
			return i, i > 0 && text[i-1] == '/', true
		}
	}
	return 0, false, false
}
