package nlu

import (
	"sort"
	"strings"
	"unicode"

	"ecitizen/models"

	"golang.org/x/text/unicode/norm"
)

// Keyword tables. Phrases are matched on word boundaries after folding, so
// "driver's license" and "drivers license" both fold to the same tokens.
// Adding a language is a data change: add an entry to each table.

type intentRule struct {
	intent   models.Intent
	keywords map[models.Language][]string
}

type serviceRule struct {
	service  models.ServiceType
	keywords map[models.Language][]string
}

// intentRules is checked in order; the first rule with a hit wins.
// ask_requirements goes first because "what do I need" also contains "need".
var intentRules = []intentRule{
	{
		intent: models.IntentAskRequirements,
		keywords: map[models.Language][]string{
			models.LanguageEnglish: {
				"requirement", "requirements", "what do i need", "what should i bring",
				"what to bring", "documents", "required documents", "what is needed", "what's needed",
			},
			models.LanguageSwahili: {
				"mahitaji", "nahitaji nini", "nilete nini", "vitu gani", "stakabadhi", "hati gani",
			},
		},
	},
	{
		intent: models.IntentCheckStatus,
		keywords: map[models.Language][]string{
			models.LanguageEnglish: {
				"status", "progress", "where am i", "how far", "what do you have",
			},
			models.LanguageSwahili: {
				"hali", "maendeleo", "nimefika wapi",
			},
		},
	},
	{
		intent: models.IntentStartBooking,
		keywords: map[models.Language][]string{
			models.LanguageEnglish: {
				"book", "booking", "appointment", "apply", "application", "schedule", "reserve",
				"need", "want", "get", "renew", "renewal", "register", "start", "help me",
				"i'd like", "would like",
			},
			models.LanguageSwahili: {
				"nataka", "ningependa", "omba", "kuomba", "naomba", "miadi", "weka miadi",
				"nahitaji", "hitaji", "sajili", "anza", "pata", "kupata",
			},
		},
	},
}

// serviceRules follows models.ServicePrecedence.
var serviceRules = []serviceRule{
	{
		service: models.ServicePassport,
		keywords: map[models.Language][]string{
			models.LanguageEnglish: {"passport", "passports"},
			models.LanguageSwahili: {"pasipoti", "paspoti"},
		},
	},
	{
		service: models.ServiceNationalID,
		keywords: map[models.Language][]string{
			models.LanguageEnglish: {"national id", "id card", "identity card", "national identity"},
			models.LanguageSwahili: {"kitambulisho", "kitambulisho cha taifa", "kipande"},
		},
	},
	{
		service: models.ServiceDrivingLicense,
		keywords: map[models.Language][]string{
			models.LanguageEnglish: {
				"driving license", "driving licence", "driver's license", "drivers license",
				"driving permit", "license", "licence",
			},
			models.LanguageSwahili: {"leseni", "leseni ya udereva", "udereva"},
		},
	},
	{
		service: models.ServiceGoodConduct,
		keywords: map[models.Language][]string{
			models.LanguageEnglish: {
				"good conduct", "certificate of good conduct", "police clearance",
				"conduct certificate", "police certificate",
			},
			models.LanguageSwahili: {"tabia njema", "cheti cha tabia njema"},
		},
	},
}

var cancelKeywords = map[models.Language][]string{
	models.LanguageEnglish: {"cancel", "stop", "start over", "quit", "abort", "never mind", "nevermind", "exit"},
	models.LanguageSwahili: {"ghairi", "sitisha", "acha", "anza upya"},
}

// cancelFillers may surround a cancel phrase ("please just cancel it").
var cancelFillers = wordSet(
	"please", "just", "ok", "okay", "oh", "now", "let", "s", "lets", "i", "want", "to", "my",
	"it", "that", "this", "the", "booking", "everything", "all",
	"tafadhali", "basi", "sawa", "tu", "yote", "hiyo", "hii", "yangu",
)

// nameTriggers introduce a name ("my name is John Doe").
var nameTriggers = map[models.Language][]string{
	models.LanguageEnglish: {"my name is", "name is", "i am", "i'm", "i’m", "call me", "this is"},
	models.LanguageSwahili: {"jina langu ni", "majina yangu ni", "naitwa", "ninaitwa", "mimi ni"},
}

// nameFillers reject a trigger match when they follow it ("i am looking for...").
var nameFillers = wordSet(
	"a", "an", "the", "here", "looking", "calling", "trying", "interested", "not", "fine",
	"good", "okay", "ok", "going", "applying", "booking", "writing", "asking", "ready", "done",
	"sorry", "new", "just", "also", "so", "very", "well", "in", "at", "from", "to", "on",
	"with", "for", "glad", "happy", "still", "currently", "already", "having", "unable",
	"born", "married", "single", "about", "able", "urgent", "important", "serious", "sure",
	"worried", "confused", "busy", "available", "eligible", "employed", "unemployed", "late",
	"early", "citizen", "resident", "student", "kenyan", "ugandan", "tanzanian", "rwandan",
	"burundian", "somali", "ethiopian", "sudanese", "congolese", "nigerian", "indian", "british",
	"american", "mkenya", "raia", "mwanafunzi",
	"hapa", "sawa", "tayari", "pia", "bado", "na", "ni", "kutoka", "mzima", "mgonjwa",
)

// nameStops end a name ("I am John Doe and my phone...").
var nameStops = wordSet(
	"and", "my", "with", "from", "born", "id", "phone", "number", "email", "i", "or", "but",
	"please", "for", "to", "at", "dot", "passport", "booking", "appointment", "want", "need",
	"na", "yangu", "wangu", "namba", "nambari", "simu", "kitambulisho", "barua", "nimezaliwa",
	"pasipoti", "nataka", "nahitaji",
)

var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6, "july": 7,
	"august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8, "sep": 9,
	"sept": 9, "oct": 10, "nov": 11, "dec": 12,
	"januari": 1, "februari": 2, "machi": 3, "aprili": 4, "mei": 5, "juni": 6, "julai": 7,
	"agosti": 8, "septemba": 9, "oktoba": 10, "novemba": 11, "desemba": 12,
}

// monthAlternation returns month names longest first for use in a regexp alternation.
func monthAlternation() string {
	names := make([]string, 0, len(monthNames))
	for n := range monthNames {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return strings.Join(names, "|")
}

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// fold lowercases s, turns every run of non letters/digits into one space and
// pads both ends so phrases can be matched on word boundaries with strings.Contains.
func fold(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(norm.NFC.String(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// languagesFor returns the keyword languages consulted for a session language.
// Kiswahili speakers code-switch, so English keywords are always consulted too.
func languagesFor(lang models.Language) []models.Language {
	if lang == models.LanguageEnglish || lang == "" {
		return []models.Language{models.LanguageEnglish}
	}
	return []models.Language{lang, models.LanguageEnglish}
}
