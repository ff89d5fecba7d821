package catalog

import (
	"ecitizen/models"
)

// ServiceDefinition describes what a government service needs before it can be booked.
// Definitions are loaded once at start-up and never mutated.
type ServiceDefinition struct {
	Type models.ServiceType
	// RequiredFields is unique and ordered; order is the prompting order.
	RequiredFields []models.FieldName
	Requirements   map[models.Language][]string
	DisplayName    map[models.Language]string
	Department     string
	PortalPath     string
}

// Name returns the localized display name, falling back to English.
func (d ServiceDefinition) Name(lang models.Language) string {
	if n, ok := d.DisplayName[lang]; ok {
		return n
	}
	return d.DisplayName[models.LanguageEnglish]
}

// RequirementsFor returns the localized requirement list, falling back to English.
func (d ServiceDefinition) RequirementsFor(lang models.Language) []string {
	if r, ok := d.Requirements[lang]; ok {
		return r
	}
	return d.Requirements[models.LanguageEnglish]
}

// Requires reports whether field is one of the service's required fields.
func (d ServiceDefinition) Requires(field models.FieldName) bool {
	for _, f := range d.RequiredFields {
		if f == field {
			return true
		}
	}
	return false
}

// Catalog is an immutable set of service definitions.
type Catalog struct {
	defs  map[models.ServiceType]ServiceDefinition
	order []models.ServiceType
}

// New builds a catalog. Definitions are ordered by models.ServicePrecedence.
func New(defs ...ServiceDefinition) *Catalog {
	c := &Catalog{defs: make(map[models.ServiceType]ServiceDefinition, len(defs))}
	for _, d := range defs {
		c.defs[d.Type] = d
	}
	for _, st := range models.ServicePrecedence {
		if _, ok := c.defs[st]; ok {
			c.order = append(c.order, st)
		}
	}
	return c
}

// Get looks up a service definition.
func (c *Catalog) Get(st models.ServiceType) (ServiceDefinition, bool) {
	d, ok := c.defs[st]
	return d, ok
}

// All returns every definition in precedence order.
func (c *Catalog) All() []ServiceDefinition {
	out := make([]ServiceDefinition, 0, len(c.order))
	for _, st := range c.order {
		out = append(out, c.defs[st])
	}
	return out
}

// Names returns the localized display names in precedence order.
func (c *Catalog) Names(lang models.Language) []string {
	out := make([]string, 0, len(c.order))
	for _, st := range c.order {
		out = append(out, c.defs[st].Name(lang))
	}
	return out
}

// Default returns the catalog of services offered through eCitizen.
func Default() *Catalog {
	return New(defaultDefinitions...)
}

var defaultDefinitions = []ServiceDefinition{
	{
		Type: models.ServicePassport,
		RequiredFields: []models.FieldName{
			models.FieldFirstName,
			models.FieldLastName,
			models.FieldIDNumber,
			models.FieldPhone,
			models.FieldEmail,
			models.FieldDateOfBirth,
		},
		Requirements: map[models.Language][]string{
			models.LanguageEnglish: {
				"National ID card",
				"Birth certificate",
				"2 passport photos",
				"Application fee payment receipt",
			},
			models.LanguageSwahili: {
				"Kitambulisho cha taifa",
				"Cheti cha kuzaliwa",
				"Picha 2 za pasipoti",
				"Risiti ya malipo ya ada ya maombi",
			},
		},
		DisplayName: map[models.Language]string{
			models.LanguageEnglish: "Passport Application",
			models.LanguageSwahili: "Maombi ya Pasipoti",
		},
		Department: "Immigration Department",
		PortalPath: "/immigration/passport",
	},
	{
		Type: models.ServiceNationalID,
		RequiredFields: []models.FieldName{
			models.FieldFirstName,
			models.FieldLastName,
			models.FieldDateOfBirth,
			models.FieldPhone,
		},
		Requirements: map[models.Language][]string{
			models.LanguageEnglish: {
				"Birth certificate",
				"Notification of birth",
				"School leaving certificate",
				"2 passport photos",
			},
			models.LanguageSwahili: {
				"Cheti cha kuzaliwa",
				"Arifa ya kuzaliwa",
				"Cheti cha kumaliza shule",
				"Picha 2 za pasipoti",
			},
		},
		DisplayName: map[models.Language]string{
			models.LanguageEnglish: "National ID Application",
			models.LanguageSwahili: "Maombi ya Kitambulisho cha Taifa",
		},
		Department: "National Registration Bureau",
		PortalPath: "/nrb/id-application",
	},
	{
		Type: models.ServiceDrivingLicense,
		RequiredFields: []models.FieldName{
			models.FieldFirstName,
			models.FieldLastName,
			models.FieldIDNumber,
			models.FieldPhone,
			models.FieldEmail,
		},
		Requirements: map[models.Language][]string{
			models.LanguageEnglish: {
				"National ID card",
				"Medical certificate",
				"Driving school certificate",
				"2 passport photos",
			},
			models.LanguageSwahili: {
				"Kitambulisho cha taifa",
				"Cheti cha matibabu",
				"Cheti cha shule ya udereva",
				"Picha 2 za pasipoti",
			},
		},
		DisplayName: map[models.Language]string{
			models.LanguageEnglish: "Driving License",
			models.LanguageSwahili: "Leseni ya Udereva",
		},
		Department: "NTSA",
		PortalPath: "/ntsa/driving-license",
	},
	{
		Type: models.ServiceGoodConduct,
		RequiredFields: []models.FieldName{
			models.FieldFirstName,
			models.FieldLastName,
			models.FieldIDNumber,
			models.FieldPhone,
			models.FieldEmail,
		},
		Requirements: map[models.Language][]string{
			models.LanguageEnglish: {
				"National ID card",
				"2 passport photos",
				"Fingerprint capture",
			},
			models.LanguageSwahili: {
				"Kitambulisho cha taifa",
				"Picha 2 za pasipoti",
				"Uchukuaji wa alama za vidole",
			},
		},
		DisplayName: map[models.Language]string{
			models.LanguageEnglish: "Certificate of Good Conduct",
			models.LanguageSwahili: "Cheti cha Tabia Njema",
		},
		Department: "Directorate of Criminal Investigations",
		PortalPath: "/dci/good-conduct",
	},
}
