package nlu

import (
	"testing"

	"ecitizen/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Fields(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name      string
		utterance string
		want      map[models.FieldName]string
	}{
		{
			name:      "english introduction with id",
			utterance: "I am John Doe, my ID is 12345678",
			want: map[models.FieldName]string{
				models.FieldFirstName: "John",
				models.FieldLastName:  "Doe",
				models.FieldIDNumber:  "12345678",
			},
		},
		{
			name:      "kiswahili introduction",
			utterance: "Jina langu ni wanjiku kamau mwangi",
			want: map[models.FieldName]string{
				models.FieldFirstName: "Wanjiku",
				models.FieldLastName:  "Kamau Mwangi",
			},
		},
		{
			name:      "single name",
			utterance: "naitwa Otieno.",
			want: map[models.FieldName]string{
				models.FieldFirstName: "Otieno",
			},
		},
		{
			name:      "filler after trigger is not a name",
			utterance: "I am looking for a passport",
			want:      map[models.FieldName]string{},
		},
		{
			name:      "adjective after this is",
			utterance: "This is urgent, book a passport",
			want:      map[models.FieldName]string{},
		},
		{
			name:      "nationality after i am",
			utterance: "I am Kenyan and I want a passport",
			want:      map[models.FieldName]string{},
		},
		{
			name:      "kiswahili nationality",
			utterance: "Mimi ni Mkenya, naitwa Baraka",
			want:      map[models.FieldName]string{models.FieldFirstName: "Baraka"},
		},
		{
			name:      "later trigger used when first is filler",
			utterance: "I am here to apply. My name is Achieng Odhiambo",
			want: map[models.FieldName]string{
				models.FieldFirstName: "Achieng",
				models.FieldLastName:  "Odhiambo",
			},
		},
		{
			name:      "local phone",
			utterance: "my number is 0712345678",
			want:      map[models.FieldName]string{models.FieldPhone: "0712345678"},
		},
		{
			name:      "international phone with spaces",
			utterance: "call +254 712 345 678 please",
			want:      map[models.FieldName]string{models.FieldPhone: "0712345678"},
		},
		{
			name:      "254 prefix and 01 range",
			utterance: "254112345678",
			want:      map[models.FieldName]string{models.FieldPhone: "0112345678"},
		},
		{
			name:      "nine digit id is not an id",
			utterance: "id 123456789",
			want:      map[models.FieldName]string{models.FieldPhone: "0123456789"},
		},
		{
			name:      "id embedded in longer run is ignored",
			utterance: "reference 1234567890123",
			want:      map[models.FieldName]string{},
		},
		{
			name:      "email",
			utterance: "email me at john.doe@example.co.ke.",
			want:      map[models.FieldName]string{models.FieldEmail: "john.doe@example.co.ke"},
		},
		{
			name:      "spoken email",
			utterance: "my email is John at gmail dot com",
			want:      map[models.FieldName]string{models.FieldEmail: "john@gmail.com"},
		},
		{
			name:      "numeric date of birth",
			utterance: "I was born on 14/03/1990",
			want:      map[models.FieldName]string{models.FieldDateOfBirth: "1990-03-14"},
		},
		{
			name:      "written english date of birth",
			utterance: "born March 4th, 1988",
			want:      map[models.FieldName]string{models.FieldDateOfBirth: "1988-03-04"},
		},
		{
			name:      "written kiswahili date of birth",
			utterance: "nimezaliwa tarehe 2 Desemba 2001",
			want:      map[models.FieldName]string{models.FieldDateOfBirth: "2001-12-02"},
		},
		{
			name:      "invalid calendar date is dropped",
			utterance: "31/02/1990",
			want:      map[models.FieldName]string{},
		},
		{
			name:      "nothing to extract",
			utterance: "hello there",
			want:      map[models.FieldName]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.utterance))
		})
	}
}

func TestExtract_AllFieldsInOneUtterance(t *testing.T) {
	e := NewExtractor()
	got := e.Extract("My name is Jane Wambui, ID 23456789, phone 0722000111, email jane@mail.com, born 01/01/1995")

	assert.Equal(t, map[models.FieldName]string{
		models.FieldFirstName:   "Jane",
		models.FieldLastName:    "Wambui",
		models.FieldIDNumber:    "23456789",
		models.FieldPhone:       "0722000111",
		models.FieldEmail:       "jane@mail.com",
		models.FieldDateOfBirth: "1995-01-01",
	}, got)
}

func TestExtractDetailed_IDAndPhoneMayShareDigits(t *testing.T) {
	e := NewExtractor()
	got := e.ExtractDetailed("7 12345678")

	require.Contains(t, got.Fields, models.FieldIDNumber)
	require.Contains(t, got.Fields, models.FieldPhone)
	assert.Equal(t, "12345678", got.Fields[models.FieldIDNumber])
	assert.Equal(t, "0712345678", got.Fields[models.FieldPhone])
	assert.True(t, got.Spans[models.FieldIDNumber].Overlaps(got.Spans[models.FieldPhone]))
}

func TestExtract_Deterministic(t *testing.T) {
	e := NewExtractor()
	first := e.Extract("I am John Doe, my ID is 12345678, 0712345678")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, e.Extract("I am John Doe, my ID is 12345678, 0712345678"))
	}
}

func TestAnswerFor(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name      string
		utterance string
		expected  models.FieldName
		want      map[models.FieldName]string
	}{
		{"bare last name", "doe", models.FieldLastName, map[models.FieldName]string{models.FieldLastName: "Doe"}},
		{"bare full name", "mary akinyi", models.FieldFirstName, map[models.FieldName]string{
			models.FieldFirstName: "Mary",
			models.FieldLastName:  "Akinyi",
		}},
		{"digits are not a name", "12345", models.FieldFirstName, nil},
		{"connective is not a name", "and", models.FieldFirstName, nil},
		{"spaced id", "1234 5678", models.FieldIDNumber, map[models.FieldName]string{models.FieldIDNumber: "12345678"}},
		{"dashed phone", "0712-345-678", models.FieldPhone, map[models.FieldName]string{models.FieldPhone: "0712345678"}},
		{"spoken email", "jane dot doe at mail dot com", models.FieldEmail, map[models.FieldName]string{models.FieldEmail: "jane.doe@mail.com"}},
		{"empty", "  ", models.FieldEmail, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.AnswerFor(tt.utterance, tt.expected))
		})
	}
}
