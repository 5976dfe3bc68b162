package nlp

import (
	"regexp"
	"sort"
	"strings"
)

const months = `(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan\.?|Feb\.?|Mar\.?|Apr\.?|Jun\.?|Jul\.?|Aug\.?|Sept?\.?|Oct\.?|Nov\.?|Dec\.?)`

var datePatterns = []*regexp.Regexp{
	// March 14, 1879 / March 14 / March 1879
	regexp.MustCompile(`\b` + months + `\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`),
	regexp.MustCompile(`\b` + months + `\s+\d{4}\b`),
	// 14 March 1879
	regexp.MustCompile(`\b\d{1,2}(?:st|nd|rd|th)?\s+` + months + `(?:\s+\d{4})?\b`),
	// the 1920s
	regexp.MustCompile(`\b(?:1[0-9]|20)\d0s\b`),
	// 1915
	regexp.MustCompile(`\b(?:1[0-9]|20)\d{2}\b`),
}

var orgSuffixes = map[string]bool{
	"academy": true, "agency": true, "association": true, "bank": true,
	"college": true, "commission": true, "committee": true, "company": true,
	"corp": true, "corporation": true, "council": true, "department": true,
	"foundation": true, "inc": true, "institute": true, "laboratory": true,
	"laboratories": true, "labs": true, "ministry": true, "organisation": true,
	"organization": true, "party": true, "school": true, "society": true,
	"union": true, "university": true,
}

var acronymPattern = regexp.MustCompile(`^[A-Z]{2,6}$`)

// roman numerals are upper case but never organisations
var romanPattern = regexp.MustCompile(`^[IVXLCDM]+$`)

// FindDates returns the DATE spans of a sentence, longest first when spans overlap.
func FindDates(text string) []Entity {
	type span struct{ start, end int }
	var spans []span
	for _, re := range datePatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, span{loc[0], loc[1]})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		li, lj := spans[i].end-spans[i].start, spans[j].end-spans[j].start
		if li != lj {
			return li > lj
		}
		return spans[i].start < spans[j].start
	})

	var kept []span
	for _, s := range spans {
		overlap := false
		for _, k := range kept {
			if s.start < k.end && k.start < s.end {
				overlap = true
				break
			}
		}
		if !overlap {
			kept = append(kept, s)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].start < kept[j].start })

	out := make([]Entity, 0, len(kept))
	for _, k := range kept {
		out = append(out, Entity{Text: text[k.start:k.end], Label: Date})
	}
	return out
}

// FindOrgs returns ORG spans: runs of capitalized words containing an
// organisational noun ("Princeton University", "University of Chicago") and
// standalone acronyms ("NASA").
func FindOrgs(tokens []Token) []Entity {
	var out []Entity
	var run []string
	flush := func() {
		for len(run) > 0 && isConnector(run[len(run)-1]) {
			run = run[:len(run)-1]
		}
		if len(run) > 0 && run[0] == "The" {
			run = run[1:]
		}
		if len(run) >= 2 && hasOrgSuffix(run) {
			out = append(out, Entity{Text: strings.Join(run, " "), Label: Org})
		}
		run = nil
	}

	for _, tok := range tokens {
		word := tok.Text
		switch {
		case acronymPattern.MatchString(word) && !romanPattern.MatchString(word):
			flush()
			out = append(out, Entity{Text: word, Label: Org})
		case isCapitalized(word):
			run = append(run, word)
		case len(run) > 0 && isConnector(word):
			run = append(run, word)
		default:
			flush()
		}
	}
	flush()
	return out
}

func isConnector(word string) bool {
	return word == "of" || word == "for" || word == "and"
}

func hasOrgSuffix(words []string) bool {
	for _, w := range words {
		if orgSuffixes[strings.ToLower(strings.TrimSuffix(w, "."))] {
			return true
		}
	}
	return false
}

func isCapitalized(word string) bool {
	if word == "" {
		return false
	}
	c := word[0]
	return c >= 'A' && c <= 'Z'
}
