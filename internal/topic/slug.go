package topic

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]`)

// Slug derives an id from a display title: lowercased, spaces replaced by
// underscores, every other non-word character removed.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, " ", "_")
	return nonWord.ReplaceAllString(s, "")
}

// idSet hands out unique ids. The first concept keeps its slug, later ones
// sharing it get _2, _3 and so on.
type idSet map[string]int

func (ids idSet) claim(slug string) string {
	if slug == "" {
		slug = "topic"
	}
	if r, _ := firstRune(slug); unicode.IsDigit(r) {
		slug = "_" + slug
	}
	ids[slug]++
	if n := ids[slug]; n > 1 {
		candidate := slug + "_" + strconv.Itoa(n)
		for ids[candidate] > 0 {
			ids[slug]++
			candidate = slug + "_" + strconv.Itoa(ids[slug])
		}
		ids[candidate]++
		return candidate
	}
	return slug
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
