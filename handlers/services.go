package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"ecitizen/models"
	"ecitizen/services/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServicesHandler serves the public service catalog.
type ServicesHandler struct {
	Catalog     *catalog.Catalog
	BaseURL     string
	DefaultLang models.Language
}

func NewServicesHandler(c *catalog.Catalog, baseURL string, defaultLang models.Language) *ServicesHandler {
	return &ServicesHandler{Catalog: c, BaseURL: strings.TrimRight(baseURL, "/"), DefaultLang: defaultLang}
}

// ListServices handles GET /api/services?lang=sw.
func (h *ServicesHandler) ListServices(c *gin.Context) {
	lang := models.ParseLanguage(c.Query("lang"), h.DefaultLang)

	defs := h.Catalog.All()
	out := make([]models.ServiceInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, h.info(d, lang))
	}
	c.JSON(http.StatusOK, out)
}

// GetService handles GET /api/services/:serviceType.
func (h *ServicesHandler) GetService(c *gin.Context) {
	raw := c.Param("serviceType")
	st, ok := models.ParseServiceType(raw)
	if !ok {
		getLogger(c).Debug("GetService: unknown service type", zap.String("serviceType", raw))
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown service", "message": raw})
		return
	}
	def, ok := h.Catalog.Get(st)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not offered", "message": raw})
		return
	}
	c.JSON(http.StatusOK, h.info(def, models.ParseLanguage(c.Query("lang"), h.DefaultLang)))
}

func (h *ServicesHandler) info(d catalog.ServiceDefinition, lang models.Language) models.ServiceInfo {
	portal, err := url.JoinPath(h.BaseURL, d.PortalPath)
	if err != nil {
		portal = h.BaseURL + d.PortalPath
	}
	return models.ServiceInfo{
		Type:           d.Type,
		Name:           d.Name(lang),
		Department:     d.Department,
		Requirements:   d.RequirementsFor(lang),
		RequiredFields: d.RequiredFields,
		PortalURL:      portal,
	}
}
