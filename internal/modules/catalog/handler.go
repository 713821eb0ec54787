package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/pkg/response"
	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/pkg/validator"
)

type Handler struct {
	resolver  *Resolver
	catalog   CatalogReader
	overrides OverrideStore
}

func NewHandler(resolver *Resolver, catalog CatalogReader, overrides OverrideStore) *Handler {
	return &Handler{resolver: resolver, catalog: catalog, overrides: overrides}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog/analyses", h.ListAnalyses)
	rg.GET("/catalog/analyses/by-codes", h.AnalysesByCodes)
	rg.GET("/catalog/profiles", h.ListProfiles)
	rg.GET("/catalog/profiles/:code/analyses", h.ProfileAnalyses)
	rg.GET("/catalog/matrices", h.ListMatrices)
	rg.GET("/catalog/accreditors", h.ListAccreditors)
	rg.GET("/catalog/clients", h.ListClients)
	rg.GET("/catalog/clients/:code/contacts", h.ClientContacts)
}

// RegisterAdminRoutes mounts the override write endpoints; the caller
// guards the group with the lab-admin permission.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/catalog/analyses/override", h.SaveAnalysisOverride)
	rg.POST("/catalog/profiles/:code/price", h.SaveProfilePrice)
}

func (h *Handler) ListAnalyses(c *gin.Context) {
	query := c.Query("q")
	analyses, err := h.resolver.CombinedAnalyses(c.Request.Context(), query)
	if err != nil {
		response.Internal(c, "Failed to load the analysis catalog")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"analyses": analyses})
}

func (h *Handler) AnalysesByCodes(c *gin.Context) {
	raw := c.Query("codes")
	codes := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			codes = append(codes, trimmed)
		}
	}
	if len(codes) == 0 {
		response.Success(c, http.StatusOK, gin.H{"analyses": []CombinedAnalysis{}})
		return
	}
	analyses, err := h.resolver.AnalysesByCodes(c.Request.Context(), codes)
	if err != nil {
		response.Internal(c, "Failed to look up analyses")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"analyses": analyses})
}

func (h *Handler) ListProfiles(c *gin.Context) {
	profiles, err := h.resolver.ProfilesWithStats(c.Request.Context())
	if err != nil {
		response.Internal(c, "Failed to load the profile catalog")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profiles": profiles})
}

func (h *Handler) ProfileAnalyses(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		response.Validation(c, "Invalid profile code")
		return
	}
	assays, err := h.resolver.ProfileAssays(c.Request.Context(), code)
	if err != nil {
		response.Internal(c, "Failed to load the profile's analyses")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"analyses": assays})
}

func (h *Handler) ListMatrices(c *gin.Context) {
	ctx := c.Request.Context()
	if assay := strings.TrimSpace(c.Query("assay")); assay != "" {
		matrices, err := h.catalog.MatricesForAssay(ctx, assay)
		if err != nil {
			response.Internal(c, "Failed to load matrices for the assay")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"matrices": matrices})
		return
	}
	matrices, err := h.catalog.ListMatrices(ctx)
	if err != nil {
		response.Internal(c, "Failed to load the matrix catalog")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"matrices": matrices})
}

func (h *Handler) ListAccreditors(c *gin.Context) {
	accreditors, err := h.overrides.ListAccreditors(c.Request.Context())
	if err != nil {
		response.Internal(c, "Failed to load accreditors")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"accreditors": accreditors})
}

func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.catalog.ListClients(c.Request.Context())
	if err != nil {
		response.Internal(c, "Failed to load the client catalog")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"clients": clients})
}

func (h *Handler) ClientContacts(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		response.Success(c, http.StatusOK, gin.H{"contacts": []ClientContact{}})
		return
	}
	contacts, err := h.catalog.ContactsByClient(c.Request.Context(), code)
	if err != nil {
		response.Internal(c, "Failed to load client contacts")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"contacts": contacts})
}

func (h *Handler) SaveAnalysisOverride(c *gin.Context) {
	var req SaveAnalysisOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, "Invalid request body")
		return
	}
	if req.AnalysisID == 0 && strings.TrimSpace(req.Name) == "" {
		response.Validation(c, "An analysis id or name is required")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.Validation(c, "Invalid override fields")
		return
	}
	ov := AnalysisOverride{
		ID:           req.AnalysisID,
		Name:         strings.TrimSpace(req.Name),
		BasePrice:    req.Price,
		AccreditorID: req.AccreditorID,
	}
	if err := h.overrides.SaveAnalysisOverride(c.Request.Context(), ov); err != nil {
		response.Internal(c, "Failed to save the analysis override")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

func (h *Handler) SaveProfilePrice(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		response.Validation(c, "Invalid profile code")
		return
	}
	var req SaveProfilePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.Validation(c, "Invalid price")
		return
	}
	err := h.overrides.SaveProfilePrice(c.Request.Context(), code, strings.TrimSpace(req.Name), req.Price)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Validation(c, "Invalid profile code")
			return
		}
		response.Internal(c, "Failed to save the profile price")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved": true})
}
