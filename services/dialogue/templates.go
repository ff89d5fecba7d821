package dialogue

import (
	"fmt"
	"strings"
	"time"

	"ecitizen/models"
)

// Response templates, keyed by message and language. Adding a language means
// adding one entry per key here plus one per field below; English is the fallback.

type messageKey string

const (
	msgGreetingMorning   messageKey = "greeting_morning"
	msgGreetingAfternoon messageKey = "greeting_afternoon"
	msgGreetingEvening   messageKey = "greeting_evening"
	msgClarify           messageKey = "clarify"
	msgCancelled         messageKey = "cancelled"
	msgWhichService      messageKey = "which_service"
	msgRequirements      messageKey = "requirements"
	msgRequirementsWhich messageKey = "requirements_which"
	msgNoBooking         messageKey = "no_booking"
	msgOfferService      messageKey = "offer_service"
	msgStarted           messageKey = "started"
	msgCollectedSoFar    messageKey = "collected_so_far"
	msgNotCaught         messageKey = "not_caught"
	msgComplete          messageKey = "complete"
)

var messages = map[messageKey]map[models.Language]string{
	msgGreetingMorning: {
		models.LanguageEnglish: "Good morning! I am Wanjiku, your eCitizen booking assistant. I am here to help you access government services. How may I assist you today?",
		models.LanguageSwahili: "Habari za asubuhi! Mimi ni Wanjiku, msaidizi wako wa miadi ya eCitizen. Niko hapa kukusaidia kupata huduma za serikali. Nikusaidie vipi leo?",
	},
	msgGreetingAfternoon: {
		models.LanguageEnglish: "Good afternoon! I am Wanjiku, your eCitizen booking assistant. I am here to help you access government services. How may I assist you today?",
		models.LanguageSwahili: "Habari za mchana! Mimi ni Wanjiku, msaidizi wako wa miadi ya eCitizen. Niko hapa kukusaidia kupata huduma za serikali. Nikusaidie vipi leo?",
	},
	msgGreetingEvening: {
		models.LanguageEnglish: "Good evening! I am Wanjiku, your eCitizen booking assistant. I am here to help you access government services. How may I assist you today?",
		models.LanguageSwahili: "Habari za jioni! Mimi ni Wanjiku, msaidizi wako wa miadi ya eCitizen. Niko hapa kukusaidia kupata huduma za serikali. Nikusaidie vipi leo?",
	},
	msgClarify: {
		models.LanguageEnglish: "Sorry, I didn't understand that. I can help you with %s. Which service would you like?",
		models.LanguageSwahili: "Samahani, sijaelewa. Ninaweza kukusaidia na %s. Ungependa huduma gani?",
	},
	msgCancelled: {
		models.LanguageEnglish: "Okay, I have cancelled that. Tell me whenever you want to start a new booking.",
		models.LanguageSwahili: "Sawa, nimeghairi. Niambie wakati wowote ukitaka kuanza miadi mpya.",
	},
	msgWhichService: {
		models.LanguageEnglish: "Sure, I can help you book. Which service do you need: %s?",
		models.LanguageSwahili: "Sawa, naweza kukusaidia kuweka miadi. Unahitaji huduma gani: %s?",
	},
	msgRequirements: {
		models.LanguageEnglish: "For %s you will need: %s. Would you like me to start the booking?",
		models.LanguageSwahili: "Kwa %s utahitaji: %s. Ungependa nianze kuweka miadi?",
	},
	msgRequirementsWhich: {
		models.LanguageEnglish: "I can tell you what you need for %s. Which service are you interested in?",
		models.LanguageSwahili: "Naweza kukueleza mahitaji ya %s. Unavutiwa na huduma gani?",
	},
	msgNoBooking: {
		models.LanguageEnglish: "You don't have a booking in progress. I can help you with %s.",
		models.LanguageSwahili: "Huna miadi inayoendelea. Ninaweza kukusaidia na %s.",
	},
	msgOfferService: {
		models.LanguageEnglish: "I can help with %s. Would you like to book it, or hear the requirements first?",
		models.LanguageSwahili: "Naweza kukusaidia na %s. Ungependa kuweka miadi, au kusikia mahitaji kwanza?",
	},
	msgStarted: {
		models.LanguageEnglish: "Great, let's book your %s.",
		models.LanguageSwahili: "Vizuri, tuanze miadi ya %s.",
	},
	msgCollectedSoFar: {
		models.LanguageEnglish: "So far I have your %s.",
		models.LanguageSwahili: "Kufikia sasa nina %s.",
	},
	msgNotCaught: {
		models.LanguageEnglish: "Sorry, I didn't catch that.",
		models.LanguageSwahili: "Samahani, sijasikia vizuri.",
	},
	msgComplete: {
		models.LanguageEnglish: "Thank you. I have everything needed for your %s: %s. I am now handing your details to the eCitizen portal to finish the booking.",
		models.LanguageSwahili: "Asante. Nimepata kila kitu kinachohitajika kwa %s: %s. Sasa napeleka maelezo yako kwenye tovuti ya eCitizen kukamilisha miadi.",
	},
}

var fieldPrompts = map[models.FieldName]map[models.Language]string{
	models.FieldFirstName: {
		models.LanguageEnglish: "What is your first name?",
		models.LanguageSwahili: "Jina lako la kwanza ni nani?",
	},
	models.FieldLastName: {
		models.LanguageEnglish: "What is your last name?",
		models.LanguageSwahili: "Jina lako la mwisho ni nani?",
	},
	models.FieldIDNumber: {
		models.LanguageEnglish: "What is your national ID number?",
		models.LanguageSwahili: "Nambari yako ya kitambulisho ni gani?",
	},
	models.FieldPhone: {
		models.LanguageEnglish: "What is your phone number?",
		models.LanguageSwahili: "Nambari yako ya simu ni gani?",
	},
	models.FieldEmail: {
		models.LanguageEnglish: "What is your email address?",
		models.LanguageSwahili: "Barua pepe yako ni gani?",
	},
	models.FieldDateOfBirth: {
		models.LanguageEnglish: "What is your date of birth? For example, 14 March 1990.",
		models.LanguageSwahili: "Tarehe yako ya kuzaliwa ni gani? Kwa mfano, 14 Machi 1990.",
	},
}

var fieldLabels = map[models.FieldName]map[models.Language]string{
	models.FieldFirstName:   {models.LanguageEnglish: "first name", models.LanguageSwahili: "jina la kwanza"},
	models.FieldLastName:    {models.LanguageEnglish: "last name", models.LanguageSwahili: "jina la mwisho"},
	models.FieldIDNumber:    {models.LanguageEnglish: "ID number", models.LanguageSwahili: "nambari ya kitambulisho"},
	models.FieldPhone:       {models.LanguageEnglish: "phone number", models.LanguageSwahili: "nambari ya simu"},
	models.FieldEmail:       {models.LanguageEnglish: "email", models.LanguageSwahili: "barua pepe"},
	models.FieldDateOfBirth: {models.LanguageEnglish: "date of birth", models.LanguageSwahili: "tarehe ya kuzaliwa"},
}

var conjunctions = map[models.Language]string{
	models.LanguageEnglish: "and",
	models.LanguageSwahili: "na",
}

func localized(table map[models.Language]string, lang models.Language) string {
	if t, ok := table[lang]; ok {
		return t
	}
	return table[models.LanguageEnglish]
}

func render(key messageKey, lang models.Language, args ...any) string {
	return fmt.Sprintf(localized(messages[key], lang), args...)
}

func fieldPrompt(f models.FieldName, lang models.Language) string {
	return localized(fieldPrompts[f], lang)
}

func fieldLabel(f models.FieldName, lang models.Language) string {
	return localized(fieldLabels[f], lang)
}

// joinList renders "a", "a and b", "a, b and c".
func joinList(items []string, lang models.Language) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " " + localized(conjunctions, lang) + " " + items[len(items)-1]
}

// spokenValue spells digit fields out one digit at a time so speech synthesis
// does not read them as large numbers.
func spokenValue(f models.FieldName, v string) string {
	if f != models.FieldIDNumber && f != models.FieldPhone {
		return v
	}
	var b strings.Builder
	for i, r := range v {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Greeting returns the welcome line for the given local time.
func Greeting(now time.Time, lang models.Language) string {
	switch h := now.Hour(); {
	case h < 12:
		return render(msgGreetingMorning, lang)
	case h < 18:
		return render(msgGreetingAfternoon, lang)
	default:
		return render(msgGreetingEvening, lang)
	}
}
