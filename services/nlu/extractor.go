package nlu

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"ecitizen/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Span is a byte range [Start, End) in the normalized utterance.
type Span struct {
	Start int
	End   int
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Extraction is the detailed result of running every rule over one utterance.
type Extraction struct {
	Text   string
	Fields map[models.FieldName]string
	Spans  map[models.FieldName]Span
}

// Masked returns Text with every matched span blanked out, leaving only the
// words around the field values.
func (x Extraction) Masked() string {
	if len(x.Spans) == 0 {
		return x.Text
	}
	b := []byte(x.Text)
	for _, sp := range x.Spans {
		if sp.Start < 0 || sp.End > len(b) {
			continue
		}
		for i := sp.Start; i < sp.End; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

type fieldMatch struct {
	field models.FieldName
	value string
	span  Span
}

// rule is a named extraction rule. Rules run independently over the same text.
type rule struct {
	name  string
	apply func(text string) []fieldMatch
}

// Extractor pulls candidate field values out of free text. It never fails:
// a rule that finds nothing simply contributes no keys.
type Extractor struct {
	rules   []rule
	trigger *regexp.Regexp
}

var (
	idNumberRE = regexp.MustCompile(`\b\d{8}\b`)
	// Anchored; the caller checks the left and right boundaries.
	phoneRE      = regexp.MustCompile(`^(?:(\+254|254|0)[ -]?)?([17](?:[ -]?\d){8})`)
	phoneBareRE  = regexp.MustCompile(`^(?:\+254|254|0)?([17]\d{8})$`)
	emailRE      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	emailFullRE  = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	spokenMailRE = regexp.MustCompile(`(?i)\b([a-z0-9._%+\-]+)\s+at\s+([a-z0-9\-]+(?:\s+dot\s+[a-z0-9\-]+)+)\b`)
	dmyRE        = regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4})\b`)
	isoDateRE    = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	textDMYRE    = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+|ya\s+)?(` + monthAlternation() + `)\.?,?\s+(\d{4})\b`)
	textMDYRE    = regexp.MustCompile(`(?i)\b(` + monthAlternation() + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	separatorsRE = regexp.MustCompile(`[\s\-().]`)
)

// NewExtractor builds the extractor with the default rule set.
func NewExtractor() *Extractor {
	e := &Extractor{trigger: buildTriggerRE()}
	e.rules = []rule{
		{name: "name", apply: e.extractName},
		{name: "id_number", apply: extractIDNumber},
		{name: "phone", apply: extractPhone},
		{name: "email", apply: extractEmail},
		{name: "date_of_birth", apply: extractDateOfBirth},
	}
	return e
}

// Extract returns the field values found in the utterance.
func (e *Extractor) Extract(utterance string) map[models.FieldName]string {
	return e.ExtractDetailed(utterance).Fields
}

// ExtractDetailed returns values together with where they were found.
// Every rule sees the original text, so two rules may claim the same digits.
func (e *Extractor) ExtractDetailed(utterance string) Extraction {
	text := norm.NFC.String(utterance)
	out := Extraction{
		Text:   text,
		Fields: make(map[models.FieldName]string),
		Spans:  make(map[models.FieldName]Span),
	}
	for _, r := range e.rules {
		for _, m := range r.apply(text) {
			if m.value == "" {
				continue
			}
			if _, seen := out.Fields[m.field]; seen {
				continue
			}
			out.Fields[m.field] = m.value
			out.Spans[m.field] = m.span
		}
	}
	return out
}

// AnswerFor interprets a bare reply to the question for expected, e.g. "Doe"
// after "What is your last name?". It only accepts replies made entirely of
// the expected kind of value and returns nil otherwise.
func (e *Extractor) AnswerFor(utterance string, expected models.FieldName) map[models.FieldName]string {
	text := strings.TrimSpace(norm.NFC.String(utterance))
	text = strings.TrimRight(text, ".!?,;: ")
	if text == "" {
		return nil
	}

	switch expected {
	case models.FieldFirstName, models.FieldLastName:
		tokens := strings.Fields(text)
		if len(tokens) == 0 || len(tokens) > 4 {
			return nil
		}
		for _, tok := range tokens {
			if !isNameToken(tok) {
				return nil
			}
			lower := strings.ToLower(tok)
			if _, stop := nameStops[lower]; stop {
				return nil
			}
			if _, filler := nameFillers[lower]; filler {
				return nil
			}
		}
		tokens = titleTokens(tokens)
		if expected == models.FieldLastName {
			return map[models.FieldName]string{models.FieldLastName: strings.Join(tokens, " ")}
		}
		out := map[models.FieldName]string{models.FieldFirstName: tokens[0]}
		if len(tokens) > 1 {
			out[models.FieldLastName] = strings.Join(tokens[1:], " ")
		}
		return out

	case models.FieldIDNumber:
		digits := separatorsRE.ReplaceAllString(text, "")
		if len(digits) == 8 && allDigits(digits) {
			return map[models.FieldName]string{models.FieldIDNumber: digits}
		}

	case models.FieldPhone:
		compact := separatorsRE.ReplaceAllString(text, "")
		if m := phoneBareRE.FindStringSubmatch(compact); m != nil {
			return map[models.FieldName]string{models.FieldPhone: "0" + m[1]}
		}

	case models.FieldEmail:
		lower := strings.ToLower(text)
		lower = strings.ReplaceAll(lower, " at ", "@")
		lower = strings.ReplaceAll(lower, " dot ", ".")
		lower = strings.Join(strings.Fields(lower), "")
		if emailFullRE.MatchString(lower) {
			return map[models.FieldName]string{models.FieldEmail: lower}
		}
	}
	return nil
}

func buildTriggerRE() *regexp.Regexp {
	var phrases []string
	for _, lang := range []models.Language{models.LanguageEnglish, models.LanguageSwahili} {
		for _, t := range nameTriggers[lang] {
			phrases = append(phrases, regexp.QuoteMeta(t))
		}
	}
	// Longer phrases first so "my name is" beats "name is" at the same position.
	sort.SliceStable(phrases, func(i, j int) bool { return len(phrases[i]) > len(phrases[j]) })
	return regexp.MustCompile(`(?i)(?:^|\b)(?:` + strings.Join(phrases, "|") + `)\s+`)
}

// extractName takes the first trigger in the text that is followed by a usable
// name. The first token becomes first_name, the rest last_name.
func (e *Extractor) extractName(text string) []fieldMatch {
	for _, loc := range e.trigger.FindAllStringIndex(text, -1) {
		tokens, span, ok := readNameTokens(text, loc[1])
		if !ok {
			continue
		}
		tokens = titleTokens(tokens)
		out := []fieldMatch{{field: models.FieldFirstName, value: tokens[0], span: span}}
		if len(tokens) > 1 {
			out = append(out, fieldMatch{field: models.FieldLastName, value: strings.Join(tokens[1:], " "), span: span})
		}
		return out
	}
	return nil
}

// readNameTokens reads up to four name tokens starting at pos, stopping at
// punctuation, digits or connective words. It never crosses a sentence end.
func readNameTokens(text string, pos int) ([]string, Span, bool) {
	var tokens []string
	span := Span{Start: -1}
	i := pos
	for len(tokens) < 4 {
		for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
			i++
		}
		start := i
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsLetter(r) && r != '\'' && r != '’' && r != '-' {
				break
			}
			i += size
		}
		if i == start {
			break
		}
		tok := text[start:i]
		lower := strings.ToLower(tok)
		if _, stop := nameStops[lower]; stop {
			break
		}
		if len(tokens) == 0 {
			if _, filler := nameFillers[lower]; filler {
				return nil, Span{}, false
			}
			span.Start = start
		}
		tokens = append(tokens, tok)
		span.End = i
		if i < len(text) && text[i] != ' ' && text[i] != '\t' {
			break
		}
	}
	if len(tokens) == 0 {
		return nil, Span{}, false
	}
	return tokens, span, true
}

func extractIDNumber(text string) []fieldMatch {
	loc := idNumberRE.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	return []fieldMatch{{field: models.FieldIDNumber, value: text[loc[0]:loc[1]], span: Span{loc[0], loc[1]}}}
}

// extractPhone finds the first Kenyan mobile number and normalizes it to 07XXXXXXXX / 01XXXXXXXX.
func extractPhone(text string) []fieldMatch {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '+' && (c < '0' || c > '9') {
			continue
		}
		if i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:i])
			if unicode.IsLetter(prev) || unicode.IsDigit(prev) || prev == '+' {
				continue
			}
		}
		m := phoneRE.FindStringSubmatchIndex(text[i:])
		if m == nil {
			continue
		}
		end := i + m[1]
		if end < len(text) && text[end] >= '0' && text[end] <= '9' {
			continue
		}
		subscriber := separatorsRE.ReplaceAllString(text[i+m[4]:i+m[5]], "")
		return []fieldMatch{{field: models.FieldPhone, value: "0" + subscriber, span: Span{i, end}}}
	}
	return nil
}

func extractEmail(text string) []fieldMatch {
	if loc := emailRE.FindStringIndex(text); loc != nil {
		return []fieldMatch{{field: models.FieldEmail, value: text[loc[0]:loc[1]], span: Span{loc[0], loc[1]}}}
	}
	// Spoken form from speech-to-text: "john at gmail dot com".
	if m := spokenMailRE.FindStringSubmatchIndex(text); m != nil {
		local := strings.ToLower(text[m[2]:m[3]])
		domain := strings.ToLower(text[m[4]:m[5]])
		domain = strings.Join(strings.Fields(strings.ReplaceAll(domain, " dot ", ".")), "")
		return []fieldMatch{{field: models.FieldEmail, value: local + "@" + domain, span: Span{m[0], m[1]}}}
	}
	return nil
}

// extractDateOfBirth accepts DD/MM/YYYY, YYYY-MM-DD and written months in
// English or Kiswahili. The earliest valid date in the text wins.
func extractDateOfBirth(text string) []fieldMatch {
	best := fieldMatch{span: Span{Start: -1}}
	consider := func(loc []int, year, month, day int) {
		if loc == nil || !validDate(year, month, day) {
			return
		}
		if best.span.Start >= 0 && loc[0] >= best.span.Start {
			return
		}
		best = fieldMatch{
			field: models.FieldDateOfBirth,
			value: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			span:  Span{loc[0], loc[1]},
		}
	}

	if m := dmyRE.FindStringSubmatchIndex(text); m != nil {
		consider(m, atoi(text[m[6]:m[7]]), atoi(text[m[4]:m[5]]), atoi(text[m[2]:m[3]]))
	}
	if m := isoDateRE.FindStringSubmatchIndex(text); m != nil {
		consider(m, atoi(text[m[2]:m[3]]), atoi(text[m[4]:m[5]]), atoi(text[m[6]:m[7]]))
	}
	if m := textDMYRE.FindStringSubmatchIndex(text); m != nil {
		consider(m, atoi(text[m[6]:m[7]]), monthNames[strings.ToLower(text[m[4]:m[5]])], atoi(text[m[2]:m[3]]))
	}
	if m := textMDYRE.FindStringSubmatchIndex(text); m != nil {
		consider(m, atoi(text[m[6]:m[7]]), monthNames[strings.ToLower(text[m[2]:m[3]])], atoi(text[m[4]:m[5]]))
	}
	if best.span.Start < 0 {
		return nil
	}
	return []fieldMatch{best}
}

func validDate(year, month, day int) bool {
	if year < 1900 || month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

func isNameToken(tok string) bool {
	letters := 0
	for _, r := range tok {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == '\'' || r == '’' || r == '-':
		default:
			return false
		}
	}
	return letters > 0
}

func titleTokens(tokens []string) []string {
	// A Caser holds state, so one per call.
	caser := cases.Title(language.Und, cases.NoLower)
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = caser.String(t)
	}
	return out
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
