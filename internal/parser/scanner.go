package parser

// linkRef is one link occurrence found by scanLinks. For direct links value is
// the raw target; for reference and shorthand links it is the raw label.
type linkRef struct {
	direct bool
	value  string
}

// scanLinks walks text once and reports every direct link [text](target),
// reference link [text][label] and shorthand link [label] in order.
//
// A bracket span directly followed by '(' or '[' is never a shorthand link,
// and neither is one directly preceded by '[' or '('. The label half of a
// reference link is consumed together with its text half. The start and end
// of text are valid neighbours for a shorthand link.
func scanLinks(text string) []linkRef {
	var out []linkRef
	for i := 0; i < len(text); {
		if text[i] != '[' {
			i++
			continue
		}
		end, ok := bracketSpan(text, i)
		if !ok {
			i++
			continue
		}

		switch byteAt(text, end) {
		case '(':
			if target, closing, ok := enclosed(text, end+1, ')'); ok {
				out = append(out, linkRef{direct: true, value: target})
				i = closing + 1
				continue
			}
		case '[':
			if label, closing, ok := enclosed(text, end+1, ']'); ok {
				out = append(out, linkRef{value: label})
				i = closing + 1
				continue
			}
		default:
			if prev := byteAt(text, i-1); prev != '[' && prev != '(' {
				out = append(out, linkRef{value: text[i+1 : end-1]})
			}
		}
		i = end
	}
	return out
}

// bracketSpan matches a non-empty [..] span opening at i whose content holds
// no '[', ']' or ')'. It returns the index just past the closing bracket.
func bracketSpan(text string, i int) (int, bool) {
	j := i + 1
	for ; j < len(text) && text[j] != ']'; j++ {
		if c := text[j]; c == '[' || c == ')' {
			return 0, false
		}
	}
	if j == len(text) || j == i+1 {
		return 0, false
	}
	return j + 1, true
}

// enclosed returns the non-empty, single-line text between from and the
// first closer.
func enclosed(text string, from int, closer byte) (string, int, bool) {
	k := from
	for ; k < len(text) && text[k] != closer; k++ {
		if text[k] == '\n' {
			return "", 0, false
		}
	}
	if k == len(text) || k == from {
		return "", 0, false
	}
	return text[from:k], k, true
}

func byteAt(text string, i int) byte {
	if i < 0 || i >= len(text) {
		return 0
	}
	return text[i]
}
