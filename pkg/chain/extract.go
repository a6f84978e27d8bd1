package chain

import "strings"

// ExtractList pulls a line-per-item list out of a model reply. The list
// is read from between the first <tag> and the first </tag> after it;
// without such a pair the whole text is used. Lines are trimmed and
// blank lines dropped. It never fails.
func ExtractList(text, tag string) []string {
	region, _ := markedRegion(text, tag)
	return splitItems(region)
}

// ListParser is the configurable form of ExtractList.
type ListParser struct {
	Tag string

	// Strict makes Parse fail with ErrMarkersNotFound instead of falling
	// back to the whole reply.
	Strict bool
}

// Parse extracts the list from text.
func (p ListParser) Parse(text string) ([]string, error) {
	region, found := markedRegion(text, p.Tag)
	if !found && p.Strict && p.Tag != "" {
		return nil, &ExtractionError{Tag: p.Tag, Err: ErrMarkersNotFound}
	}
	return splitItems(region), nil
}

// Stage returns Parse as a Stage.
func (p ListParser) Stage() Stage[string, []string] {
	return Map(p.Parse)
}

func markedRegion(text, tag string) (string, bool) {
	if tag == "" {
		return text, false
	}

	open := "<" + tag + ">"
	start := strings.Index(text, open)
	if start < 0 {
		return text, false
	}
	start += len(open)

	end := strings.Index(text[start:], "</"+tag+">")
	if end < 0 {
		return text, false
	}
	return text[start : start+end], true
}

func splitItems(s string) []string {
	items := []string{}
	lines := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}
