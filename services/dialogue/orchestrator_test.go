package dialogue

import (
	"fmt"
	"testing"

	"ecitizen/models"
	"ecitizen/services/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestOrchestrator() *Orchestrator {
	return NewOrchestrator(catalog.Default(), zap.NewNop())
}

func TestHandleUtterance_StartsBookingAndPromptsForPhone(t *testing.T) {
	o := newTestOrchestrator()
	s := models.NewDialogueSession("s1", models.LanguageEnglish)

	res := o.HandleUtterance(s, "I want a certificate of good conduct. I am John Doe, my ID is 12345678")

	assert.Equal(t, models.StateCollecting, res.SessionState)
	assert.Nil(t, res.BookingRecord)
	require.NotNil(t, s.ActiveService)
	assert.Equal(t, models.ServiceGoodConduct, *s.ActiveService)
	assert.Equal(t, map[models.FieldName]string{
		models.FieldFirstName: "John",
		models.FieldLastName:  "Doe",
		models.FieldIDNumber:  "12345678",
	}, s.Collected)
	assert.Equal(t, 1, s.TurnCount)
	assert.Equal(t,
		"Great, let's book your Certificate of Good Conduct. So far I have your first name John, last name Doe and ID number 1 2 3 4 5 6 7 8. What is your phone number?",
		res.ResponseText)
}

func TestHandleUtterance_CollectingAcceptsFieldsWithoutVerb(t *testing.T) {
	o := newTestOrchestrator()
	s := models.NewDialogueSession("s1", models.LanguageEnglish)
	require.NoError(t, o.Slots().StartService(s, models.ServiceGoodConduct))

	res := o.HandleUtterance(s, "I am John Doe, my ID is 12345678")

	assert.Equal(t, models.StateCollecting, res.SessionState)
	assert.Equal(t, map[models.FieldName]string{
		models.FieldFirstName: "John",
		models.FieldLastName:  "Doe",
		models.FieldIDNumber:  "12345678",
	}, s.Collected)
	assert.Contains(t, res.ResponseText, "What is your phone number?")
	assert.NotContains(t, res.ResponseText, "didn't catch")
}

func TestHandleUtterance_CancelMidCollecting(t *testing.T) {
	o := newTestOrchestrator()
	s := models.NewDialogueSession("s1", models.LanguageEnglish)
	o.HandleUtterance(s, "book a passport, my name is John Doe")
	require.False(t, s.IsIdle())

	res := o.HandleUtterance(s, "cancel")

	assert.Equal(t, models.StateIdle, res.SessionState)
	assert.True(t, s.IsIdle())
	assert.Empty(t, s.Collected)
	assert.Zero(t, s.TurnCount)
	assert.Contains(t, res.ResponseText, "cancelled")

	res = o.HandleUtterance(s, "cancel")
	assert.Equal(t, models.StateIdle, res.SessionState)
}

func TestHandleUtterance_CancelWordInsideFieldValueDoesNotCancel(t *testing.T) {
	o := newTestOrchestrator()
	s := models.NewDialogueSession("s1", models.LanguageEnglish)
	require.NoError(t, o.Slots().StartService(s, models.ServiceGoodConduct))
	o.HandleUtterance(s, "I am John Doe, my ID is 12345678")

	res := o.HandleUtterance(s, "my email is stop.wanjiru@gmail.com")

	assert.Equal(t, models.StateCollecting, res.SessionState)
	require.False(t, s.IsIdle())
	assert.Equal(t, "stop.wanjiru@gmail.com", s.Collected[models.FieldEmail])
	assert.Equal(t, "12345678", s.Collected[models.FieldIDNumber])
	assert.Contains(t, res.ResponseText, "What is your phone number?")
	assert.NotContains(t, res.ResponseText, "cancelled")
}

func TestHandleUtterance_KiswahiliAchaIsNotCancelMidSentence(t *testing.T) {
	o := newTestOrchestrator()
	s := models.NewDialogueSession("s1", models.LanguageSwahili)
	o.HandleUtterance(s, "Nataka pasipoti")
	o.HandleUtterance(s, "Jina langu ni Wanjiku Kamau")

	res := o.HandleUtterance(s, "Acha nikupe nambari yangu, ni 0712345678")

	assert.Equal(t, models.StateCollecting, res.SessionState)
	require.False(t, s.IsIdle())
	assert.Equal(t, "0712345678", s.Collected[models.FieldPhone])
	assert.Equal(t, "Wanjiku", s.Collected[models.FieldFirstName])
	assert.NotContains(t, res.ResponseText, "nimeghairi")
}

func TestHandleUtterance_CompletesInOneTurnForEveryService(t *testing.T) {
	keywords := map[models.ServiceType]string{
		models.ServicePassport:       "a passport",
		models.ServiceNationalID:     "a national id card",
		models.ServiceDrivingLicense: "a driving license",
		models.ServiceGoodConduct:    "a certificate of good conduct",
	}
	cat := catalog.Default()

	for st, kw := range keywords {
		t.Run(string(st), func(t *testing.T) {
			o := newTestOrchestrator()
			s := models.NewDialogueSession("s1", models.LanguageEnglish)

			res := o.HandleUtterance(s, fmt.Sprintf(
				"I want %s. My name is Jane Wambui, ID 23456789, phone 0722000111, email jane@mail.com, born 01/01/1995", kw))

			require.NotNil(t, res.BookingRecord)
			assert.Equal(t, models.StateComplete, res.SessionState)
			assert.Equal(t, st, res.BookingRecord.ServiceType)
			assert.Equal(t, models.LanguageEnglish, res.BookingRecord.Language)

			def, ok := cat.Get(st)
			require.True(t, ok)
			require.Len(t, res.BookingRecord.Data, len(def.RequiredFields))
			for _, f := range def.RequiredFields {
				assert.NotEmpty(t, res.BookingRecord.Data[f], f)
			}

			assert.True(t, s.IsIdle())
			assert.Empty(t, s.Collected)
			assert.Zero(t, s.TurnCount)
			assert.Contains(t, res.ResponseText, def.Name(models.LanguageEnglish))
		})
	}
}

func TestHandleUtterance_ContextualAnswers(t *testing.T) {
	o := newTestOrchestrator()
	s := models.NewDialogueSession("s1", models.LanguageEnglish)

	res := o.HandleUtterance(s, "I want a driving license")
	assert.Equal(t, "Great, let's book your Driving License. What is your first name?", res.ResponseText)

	res = o.HandleUtterance(s, "Mary")
	assert.Equal(t, "So far I have your first name Mary. What is your last name?", res.ResponseText)

	res = o.HandleUtterance(s, "otieno")
	assert.Contains(t, res.ResponseText, "What is your national ID number?")

	res = o.HandleUtterance(s, "1234 5678")
	assert.Equal(t,
		"So far I have your first name Mary, last name Otieno and ID number 1 2 3 4 5 6 7 8. What is your phone number?",
		res.ResponseText)

	res = o.HandleUtterance(s, "hmm")
	assert.Equal(t, models.StateCollecting, res.SessionState)
	assert.Contains(t, res.ResponseText, "Sorry, I didn't catch that.")
	assert.Contains(t, res.ResponseText, "What is your phone number?")

	res = o.HandleUtterance(s, "+254 712 345 678")
	assert.Contains(t, res.ResponseText, "phone number 0 7 1 2 3 4 5 6 7 8")
	assert.Contains(t, res.ResponseText, "What is your email address?")

	res = o.HandleUtterance(s, "mary at example dot com")
	require.NotNil(t, res.BookingRecord)
	assert.Equal(t, map[models.FieldName]string{
		models.FieldFirstName: "Mary",
		models.FieldLastName:  "Otieno",
		models.FieldIDNumber:  "12345678",
		models.FieldPhone:     "0712345678",
		models.FieldEmail:     "mary@example.com",
	}, res.BookingRecord.Data)
}

func TestHandleUtterance_TurnCountIncreases(t *testing.T) {
	o := newTestOrchestrator()
	s := models.NewDialogueSession("s1", models.LanguageEnglish)

	o.HandleUtterance(s, "book a passport")
	assert.Equal(t, 1, s.TurnCount)
	o.HandleUtterance(s, "hmm, 12")
	assert.Equal(t, 2, s.TurnCount)
	o.HandleUtterance(s, "what is the status")
	assert.Equal(t, 3, s.TurnCount)
}

func TestHandleUtterance_IdleBranchesDoNotMutate(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		contains  string
	}{
		{"requirements for a service", "What do I need for a passport?", "Birth certificate"},
		{"booking without a service", "I want to book an appointment", "Which service do you need"},
		{"requirements without a service", "what are the requirements", "Which service are you interested in"},
		{"status without a booking", "what is my status", "You don't have a booking in progress"},
		{"service without a verb", "good conduct", "Would you like to book it"},
		{"nothing recognized", "hello there", "Passport Application, National ID Application, Driving License and Certificate of Good Conduct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrchestrator()
			s := models.NewDialogueSession("s1", models.LanguageEnglish)

			res := o.HandleUtterance(s, tt.utterance)

			assert.Equal(t, models.StateIdle, res.SessionState)
			assert.Contains(t, res.ResponseText, tt.contains)
			assert.True(t, s.IsIdle())
			assert.Empty(t, s.Collected)
			assert.Zero(t, s.TurnCount)
		})
	}
}

func TestHandleUtterance_Kiswahili(t *testing.T) {
	o := newTestOrchestrator()
	s := models.NewDialogueSession("s1", models.LanguageSwahili)

	res := o.HandleUtterance(s, "Nataka pasipoti")
	assert.Equal(t, "Vizuri, tuanze miadi ya Maombi ya Pasipoti. Jina lako la kwanza ni nani?", res.ResponseText)

	res = o.HandleUtterance(s, "Jina langu ni Wanjiku Kamau")
	assert.Equal(t,
		"Kufikia sasa nina jina la kwanza Wanjiku na jina la mwisho Kamau. Nambari yako ya kitambulisho ni gani?",
		res.ResponseText)

	res = o.HandleUtterance(s, "ghairi")
	assert.Equal(t, "Sawa, nimeghairi. Niambie wakati wowote ukitaka kuanza miadi mpya.", res.ResponseText)
	assert.True(t, s.IsIdle())
}

func TestHandleUtterance_UnknownServiceFallsBackToClarification(t *testing.T) {
	passport, ok := catalog.Default().Get(models.ServicePassport)
	require.True(t, ok)
	o := NewOrchestrator(catalog.New(passport), zap.NewNop())
	s := models.NewDialogueSession("s1", models.LanguageEnglish)

	res := o.HandleUtterance(s, "book good conduct")

	assert.Equal(t, models.StateIdle, res.SessionState)
	assert.True(t, s.IsIdle())
	assert.Equal(t, "Sorry, I didn't understand that. I can help you with Passport Application. Which service would you like?", res.ResponseText)
}

func TestHandleUtterance_AmbiguousIDAndPhoneIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	o := NewOrchestrator(catalog.Default(), zap.New(core))
	s := models.NewDialogueSession("s1", models.LanguageEnglish)
	require.NoError(t, o.Slots().StartService(s, models.ServiceNationalID))

	o.HandleUtterance(s, "7 12345678")

	entries := logs.FilterMessage("Ambiguous field extraction").All()
	require.Len(t, entries, 1)
	assert.Equal(t, map[models.FieldName]string{models.FieldPhone: "0712345678"}, s.Collected)
}
