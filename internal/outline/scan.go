package outline

import "strings"

// line is one source line. end includes the trailing newline, if any.
type line struct {
	start, end int
	text       string
	fenced     bool
}

// splitLines cuts src into lines and marks the ones that belong to a fenced
// code block, fence delimiters included.
func splitLines(src string) []line {
	var lines []line
	var fence string
	for start := 0; start < len(src); {
		end := strings.IndexByte(src[start:], '\n')
		if end < 0 {
			end = len(src)
		} else {
			end += start + 1
		}
		text := strings.TrimRight(src[start:end], "\r\n")

		l := line{start: start, end: end, text: text}
		switch {
		case fence != "":
			l.fenced = true
			if closesFence(text, fence) {
				fence = ""
			}
		default:
			if f := openFence(text); f != "" {
				l.fenced = true
				fence = f
			}
		}
		lines = append(lines, l)
		start = end
	}
	return lines
}

// openFence returns the fence marker when text opens a fenced code block.
func openFence(text string) string {
	trimmed, ok := trimIndent(text)
	if !ok || len(trimmed) < 3 {
		return ""
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return ""
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return ""
	}
	// A backtick fence may not carry backticks in its info string.
	if c == '`' && strings.IndexByte(trimmed[n:], '`') >= 0 {
		return ""
	}
	return trimmed[:n]
}

func closesFence(text, fence string) bool {
	trimmed, ok := trimIndent(text)
	if !ok || !strings.HasPrefix(trimmed, fence) {
		return false
	}
	rest := strings.TrimLeft(trimmed, fence[:1])
	return strings.TrimSpace(rest) == ""
}

// trimIndent strips up to three leading spaces. Four or more make the line
// an indented code line, reported with ok == false.
func trimIndent(text string) (string, bool) {
	n := 0
	for n < len(text) && text[n] == ' ' {
		n++
	}
	if n > 3 {
		return text, false
	}
	return text[n:], true
}

// markerRun counts the '#' characters opening text after at most three
// spaces of indent, whether or not they form a heading.
func markerRun(text string) int {
	trimmed, ok := trimIndent(text)
	if !ok {
		return 0
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	return n
}

// parseATX recognises an ATX heading line. Levels above six are reported as
// well so that the depth check can reject them.
func parseATX(text string) (level int, title string, ok bool) {
	trimmed, ok := trimIndent(text)
	if !ok {
		return 0, "", false
	}
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 {
		return 0, "", false
	}
	rest := trimmed[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}
	return level, stripClosingSequence(strings.TrimSpace(rest)), true
}

// stripClosingSequence removes an optional run of '#' closing the heading.
func stripClosingSequence(title string) string {
	i := len(title)
	for i > 0 && title[i-1] == '#' {
		i--
	}
	if i == len(title) {
		return title
	}
	if i == 0 {
		return ""
	}
	if title[i-1] == ' ' || title[i-1] == '\t' {
		return strings.TrimRight(title[:i], " \t")
	}
	return title
}
