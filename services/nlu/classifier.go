package nlu

import (
	"strings"

	"ecitizen/models"
)

// Classification is the classifier's verdict for one utterance.
type Classification struct {
	Intent      models.Intent
	ServiceHint *models.ServiceType
}

// Classifier maps free text to an intent and an optional service using
// keyword-set membership. It is safe for concurrent use.
type Classifier struct {
	intents  []compiledIntent
	services []compiledService
	cancel   map[models.Language][]string
}

type compiledIntent struct {
	intent   models.Intent
	keywords map[models.Language][]string
}

type compiledService struct {
	service  models.ServiceType
	keywords map[models.Language][]string
}

// NewClassifier folds the keyword tables once.
func NewClassifier() *Classifier {
	c := &Classifier{cancel: foldTable(cancelKeywords)}
	for _, r := range intentRules {
		c.intents = append(c.intents, compiledIntent{intent: r.intent, keywords: foldTable(r.keywords)})
	}
	for _, r := range serviceRules {
		c.services = append(c.services, compiledService{service: r.service, keywords: foldTable(r.keywords)})
	}
	return c
}

// Classify returns the intent and, independently, the service the utterance names.
// When several services match, the first in models.ServicePrecedence wins.
func (c *Classifier) Classify(utterance string, lang models.Language) Classification {
	text := fold(utterance)
	langs := languagesFor(lang)

	out := Classification{Intent: models.IntentNone}
	for _, r := range c.intents {
		if matchesAny(text, r.keywords, langs) {
			out.Intent = r.intent
			break
		}
	}
	for _, r := range c.services {
		if matchesAny(text, r.keywords, langs) {
			st := r.service
			out.ServiceHint = &st
			break
		}
	}
	return out
}

// IsCancel reports whether the utterance is a cancel command. Once filler
// words are dropped the whole utterance must be a cancel phrase, so "stop"
// inside an email address or "acha nikupe..." does not cancel.
func (c *Classifier) IsCancel(utterance string, lang models.Language) bool {
	var kept []string
	for _, tok := range strings.Fields(fold(utterance)) {
		if _, filler := cancelFillers[tok]; filler {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 {
		return false
	}
	command := " " + strings.Join(kept, " ") + " "
	for _, l := range languagesFor(lang) {
		for _, kw := range c.cancel[l] {
			if command == kw {
				return true
			}
		}
	}
	return false
}

// MentionsKeyword reports whether any intent, service or cancel keyword occurs.
func (c *Classifier) MentionsKeyword(utterance string, lang models.Language) bool {
	cls := c.Classify(utterance, lang)
	return cls.Intent != models.IntentNone || cls.ServiceHint != nil || c.IsCancel(utterance, lang)
}

func matchesAny(text string, table map[models.Language][]string, langs []models.Language) bool {
	for _, l := range langs {
		for _, kw := range table[l] {
			if containsPhrase(text, kw) {
				return true
			}
		}
	}
	return false
}

// containsPhrase expects both arguments already folded.
func containsPhrase(text, phrase string) bool {
	if strings.TrimSpace(phrase) == "" {
		return false
	}
	return strings.Contains(text, phrase)
}

func foldTable(in map[models.Language][]string) map[models.Language][]string {
	out := make(map[models.Language][]string, len(in))
	for lang, kws := range in {
		for _, kw := range kws {
			out[lang] = append(out[lang], fold(kw))
		}
	}
	return out
}
