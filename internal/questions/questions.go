// Package questions turns lecture text into study questions using entity and
// part-of-speech patterns.
package questions

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/bdougie/lecturekit/internal/nlp"
)

const (
	principlesTemplate       = "What are the key principles behind %s?"
	applicationsTemplate     = "What are real-world applications of %s?"
	misconceptionsTemplate   = "What are common misconceptions about %s?"
	historicalTemplate       = "What historical or political significance does %s have?"
	scientificTemplate       = "How did %s contribute to further advancements?"
	globalImpactTemplate     = "What is the impact of '%s' ?"
	personTemplate           = "Who is/was %s and what were their contributions?"
	dateTemplate             = "What significant event occurred in %s and why was it important?"
	orgTemplate              = "What is %s and what role does it play?"
	causalQuestion           = "What are the causes and effects of this phenomenon?"
	conceptTemplatesPerTopic = 2
)

var conceptTemplates = []string{principlesTemplate, applicationsTemplate, misconceptionsTemplate}

var causalWords = map[string]bool{"because": true, "since": true, "as": true}

// two-word cues, matched on adjacent tokens
var causalPhrases = [][2]string{{"due", "to"}, {"leads", "to"}}

var pronouns = map[string]bool{"it": true, "they": true, "this": true}

// Config tunes a Generator.
type Config struct {
	// MaxPerSentence caps the questions kept for one sentence, default 5.
	MaxPerSentence int
	// CountryFollowUps adds the contribution and impact questions for a
	// newly seen place.
	CountryFollowUps bool
	// Rand drives template sampling and shuffling. Defaults to a random seed.
	Rand *rand.Rand
}

// Generator produces questions sentence by sentence. It remembers which
// people, places, organisations and topics it has asked about, so a
// Generator should be used for one document.
type Generator struct {
	tagger nlp.Tagger
	cfg    Config
	seen   map[string]bool
}

// NewGenerator returns a Generator that analyzes text with tagger.
func NewGenerator(tagger nlp.Tagger, cfg Config) *Generator {
	if cfg.MaxPerSentence <= 0 {
		cfg.MaxPerSentence = 5
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{tagger: tagger, cfg: cfg, seen: make(map[string]bool)}
}

// Generate returns the questions for text in sentence order. Within a
// sentence the order is shuffled.
func (g *Generator) Generate(text string) ([]string, error) {
	sentences, err := g.tagger.Analyze(text)
	if err != nil {
		return nil, fmt.Errorf("analyze text: %w", err)
	}
	var out []string
	for _, sent := range sentences {
		out = append(out, g.sentence(sent)...)
	}
	return out, nil
}

func (g *Generator) sentence(sent nlp.Sentence) []string {
	entities := make(map[string]string)
	for _, ent := range sent.Entities {
		entities[ent.Label] = ent.Text
	}

	var qs []string
	if person, ok := entities[nlp.Person]; ok && !g.seen[person] {
		qs = append(qs, fmt.Sprintf(personTemplate, person))
		g.seen[person] = true
	}
	if date, ok := entities[nlp.Date]; ok {
		qs = append(qs, fmt.Sprintf(dateTemplate, date))
	}
	if place, ok := entities[nlp.GPE]; ok && !g.seen[place] {
		qs = append(qs, fmt.Sprintf(historicalTemplate, place))
		if g.cfg.CountryFollowUps {
			qs = append(qs,
				fmt.Sprintf(scientificTemplate, place),
				fmt.Sprintf(globalImpactTemplate, place),
			)
		}
		g.seen[place] = true
	}
	if org, ok := entities[nlp.Org]; ok && !g.seen[org] {
		qs = append(qs, fmt.Sprintf(orgTemplate, org))
		g.seen[org] = true
	}

	if hasCausalCue(sent.Tokens) {
		qs = append(qs, causalQuestion)
	}

	if concepts := mainConcepts(sent.Tokens); len(concepts) > 0 {
		topic := strings.Join(concepts[:min(2, len(concepts))], " ")
		if !g.seen[topic] {
			for _, i := range g.cfg.Rand.Perm(len(conceptTemplates))[:conceptTemplatesPerTopic] {
				qs = append(qs, fmt.Sprintf(conceptTemplates[i], topic))
			}
			g.seen[topic] = true
		}
	}

	qs = dedupe(qs)
	if len(qs) > g.cfg.MaxPerSentence {
		qs = qs[:g.cfg.MaxPerSentence]
	}
	g.cfg.Rand.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	return qs
}

func hasCausalCue(tokens []nlp.Token) bool {
	for i, tok := range tokens {
		word := strings.ToLower(tok.Text)
		if causalWords[word] {
			return true
		}
		if i+1 < len(tokens) {
			next := strings.ToLower(tokens[i+1].Text)
			for _, p := range causalPhrases {
				if word == p[0] && next == p[1] {
					return true
				}
			}
		}
	}
	return false
}

func mainConcepts(tokens []nlp.Token) []string {
	var out []string
	for _, tok := range tokens {
		if (tok.POS == nlp.Noun || tok.POS == nlp.ProperNoun) && !pronouns[strings.ToLower(tok.Text)] {
			out = append(out, tok.Text)
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
