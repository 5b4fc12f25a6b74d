package openmensa

import (
	"log"
	"regexp"
	"strings"
)

// KeyFunc normalizes legend keys, e.g. strings.ToLower for
// case-insensitive legends. nil means identity.
type KeyFunc func(string) string

var (
	// key) value occurrences inside free legend text. The value runs over
	// Unicode word characters and must not end in a digit or paren, which
	// keeps it from swallowing the following key.
	legendRe = regexp.MustCompile(`([0-9a-z]+)\)\s*([\pL\d_]+(?:\s+[\pL\d_]+)*[^0-9)])`)
	// parenthesized reference groups like (1) or (2,a) in meal names
	extraNoteRe = regexp.MustCompile(`\(([0-9a-zA-Z]{1,2}(?:,[0-9a-zA-Z]{1,2})*)\)`)
)

// BuildLegend extends legend with all key/value pairs found in text and
// returns it (a nil legend is allocated). Keys scanned from the text are
// normalized with key; later duplicates overwrite earlier ones. A nil
// pattern selects the default legend grammar.
func BuildLegend(legend map[string]string, text string, pattern *regexp.Regexp, key KeyFunc) map[string]string {
	if legend == nil {
		legend = map[string]string{}
	}
	if pattern == nil {
		pattern = legendRe
	}
	if key == nil {
		key = identityKey
	}
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		legend[key(m[1])] = strings.TrimSpace(m[2])
	}
	return legend
}

// ExtractNotes pulls legend references like (1,a) out of a meal name and
// appends their legend texts to notes. A nil legend skips extraction
// entirely. References are matched by pattern (nil selects the default),
// flattened on commas and normalized with key; texts already present in
// notes are not appended again, unknown keys are logged and skipped.
// All matched groups are stripped from the name afterwards.
func ExtractNotes(name string, notes []string, legend map[string]string, pattern *regexp.Regexp, key KeyFunc) (string, []string) {
	if legend == nil {
		return name, notes
	}
	if pattern == nil {
		pattern = extraNoteRe
	}
	if key == nil {
		key = identityKey
	}
	for _, m := range pattern.FindAllStringSubmatch(name, -1) {
		for _, ref := range strings.Split(m[1], ",") {
			if ref == "" {
				continue
			}
			ref = key(ref)
			text, ok := legend[ref]
			if !ok {
				log.Printf("could not find extra note %q", ref)
				continue
			}
			if !containsNote(notes, text) {
				notes = append(notes, text)
			}
		}
	}
	name = pattern.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, " ", " ")
	name = strings.ReplaceAll(name, "  ", " ")
	return strings.TrimSpace(name), notes
}

func identityKey(v string) string { return v }

func containsNote(notes []string, text string) bool {
	for _, note := range notes {
		if note == text {
			return true
		}
	}
	return false
}
