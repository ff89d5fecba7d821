package submission

import (
	"fmt"
	"net/url"
	"strings"

	"ecitizen/models"
	"ecitizen/services/catalog"
)

// HandoffBuilder turns a submission into an eCitizen deep link plus the data to fill in.
type HandoffBuilder struct {
	baseURL string
	catalog *catalog.Catalog
}

func NewHandoffBuilder(baseURL string, c *catalog.Catalog) *HandoffBuilder {
	return &HandoffBuilder{baseURL: strings.TrimRight(baseURL, "/"), catalog: c}
}

// Build fails when the service is unknown, a required field is missing or the
// record carries a field the service does not ask for.
func (b *HandoffBuilder) Build(p models.SubmissionPayload) (*models.PortalHandoff, error) {
	def, ok := b.catalog.Get(p.Record.ServiceType)
	if !ok {
		return nil, fmt.Errorf("unknown service %q", p.Record.ServiceType)
	}
	for _, f := range def.RequiredFields {
		if strings.TrimSpace(p.Record.Data[f]) == "" {
			return nil, fmt.Errorf("booking for %s is missing %s", def.Type, f)
		}
	}

	for f := range p.Record.Data {
		if !def.Requires(f) {
			return nil, fmt.Errorf("booking for %s has unexpected field %s", def.Type, f)
		}
	}

	portal, err := url.JoinPath(b.baseURL, def.PortalPath)
	if err != nil {
		return nil, fmt.Errorf("invalid portal url: %w", err)
	}

	data := make(map[models.FieldName]string, len(p.Record.Data))
	for f, v := range p.Record.Data {
		data[f] = v
	}
	return &models.PortalHandoff{
		SessionID:   p.SessionID,
		ServiceType: def.Type,
		ServiceName: def.Name(p.Record.Language),
		Department:  def.Department,
		PortalURL:   portal,
		Data:        data,
		Language:    p.Record.Language,
	}, nil
}
