// Package nlp splits text into sentences and tags tokens and named entities.
//
// The prose model supplies tokenization, Penn Treebank part-of-speech tags
// and PERSON/GPE entities. DATE and ORG spans, which that model does not
// produce, are added by the pattern rules in rules.go.
package nlp

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// POS is a coarse part-of-speech class.
type POS string

const (
	Noun       POS = "NOUN"
	ProperNoun POS = "PROPN"
	Verb       POS = "VERB"
	Adjective  POS = "ADJ"
	Other      POS = "OTHER"
)

// Entity labels.
const (
	Person = "PERSON"
	GPE    = "GPE"
	Org    = "ORG"
	Date   = "DATE"
)

// Token is a word with its coarse part of speech.
type Token struct {
	Text string
	POS  POS
}

// Entity is a labelled span of a sentence.
type Entity struct {
	Text  string
	Label string
}

// Sentence is one analyzed sentence.
type Sentence struct {
	Text     string
	Tokens   []Token
	Entities []Entity
}

// Tagger analyzes free text into sentences.
type Tagger interface {
	Analyze(text string) ([]Sentence, error)
}

// ProseTagger implements Tagger with prose plus rule-based DATE and ORG spans.
type ProseTagger struct{}

// NewProseTagger returns a ready tagger; the prose model is embedded.
func NewProseTagger() *ProseTagger { return &ProseTagger{} }

// Analyze segments text and tags every sentence.
func (t *ProseTagger) Analyze(text string) ([]Sentence, error) {
	parts, err := SplitSentences(text)
	if err != nil {
		return nil, err
	}
	out := make([]Sentence, 0, len(parts))
	for _, part := range parts {
		doc, err := prose.NewDocument(part, prose.WithSegmentation(false))
		if err != nil {
			return nil, fmt.Errorf("tag sentence: %w", err)
		}
		tokens := make([]Token, 0, len(doc.Tokens()))
		for _, tok := range doc.Tokens() {
			tokens = append(tokens, Token{Text: tok.Text, POS: CoarsePOS(tok.Tag)})
		}
		var entities []Entity
		for _, ent := range doc.Entities() {
			entities = append(entities, Entity{Text: ent.Text, Label: ent.Label})
		}
		entities = mergeEntities(entities, FindDates(part))
		entities = mergeEntities(entities, FindOrgs(tokens))
		out = append(out, Sentence{Text: part, Tokens: tokens, Entities: entities})
	}
	return out, nil
}

// SplitSentences returns the non-empty sentences of text.
func SplitSentences(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("segment text: %w", err)
	}
	var out []string
	for _, sent := range doc.Sentences() {
		if s := strings.TrimSpace(sent.Text); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// CoarsePOS maps a Penn Treebank tag onto a coarse class.
func CoarsePOS(tag string) POS {
	switch {
	case tag == "NNP" || tag == "NNPS":
		return ProperNoun
	case strings.HasPrefix(tag, "NN"):
		return Noun
	case strings.HasPrefix(tag, "VB"):
		return Verb
	case strings.HasPrefix(tag, "JJ"):
		return Adjective
	default:
		return Other
	}
}

// mergeEntities appends extra entities whose text is not already covered.
func mergeEntities(base, extra []Entity) []Entity {
	for _, e := range extra {
		dup := false
		for _, b := range base {
			if strings.Contains(b.Text, e.Text) || strings.Contains(e.Text, b.Text) {
				dup = true
				break
			}
		}
		if !dup {
			base = append(base, e)
		}
	}
	return base
}
