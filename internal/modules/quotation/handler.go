package quotation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quotations", h.List)
	rg.POST("/quotations", h.Create)
	rg.GET("/quotations/:id", h.Detail)
	rg.GET("/quotations/:id/print", h.Print)
	rg.GET("/quotations/:id/request", h.Request)
	rg.GET("/quotations/:id/edit", h.EditPrefill)
	rg.PUT("/quotations/:id", h.Edit)
	rg.POST("/quotations/:id/approve", h.Approve)
	rg.POST("/quotations/:id/duplicate", h.Duplicate)
	rg.DELETE("/quotations/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "Failed to load quotations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quotations": rows})
}

func (h *Handler) Create(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, "Invalid request body")
		return
	}
	id, err := h.service.Create(c.Request.Context(), c.GetInt64("employee_id"), req)
	if err != nil {
		h.writeError(c, err, "Failed to create the quotation")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) Detail(c *gin.Context)  { h.view(c, ModeDetail) }
func (h *Handler) Print(c *gin.Context)   { h.view(c, ModePrint) }
func (h *Handler) Request(c *gin.Context) { h.view(c, ModeRequest) }

func (h *Handler) view(c *gin.Context, mode string) {
	id, ok := h.quotationID(c)
	if !ok {
		return
	}
	view, err := h.service.View(c.Request.Context(), id, mode)
	if err != nil {
		h.writeError(c, err, "Failed to load the quotation")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quotation": view})
}

func (h *Handler) EditPrefill(c *gin.Context) {
	id, ok := h.quotationID(c)
	if !ok {
		return
	}
	view, err := h.service.LoadForEdit(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to load the quotation for editing")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quotation": view})
}

func (h *Handler) Edit(c *gin.Context) {
	id, ok := h.quotationID(c)
	if !ok {
		return
	}
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, "Invalid request body")
		return
	}
	if err := h.service.Edit(c.Request.Context(), id, c.GetInt64("employee_id"), req); err != nil {
		h.writeError(c, err, "Failed to update the quotation")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id})
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := h.quotationID(c)
	if !ok {
		return
	}
	if err := h.service.Approve(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to approve the quotation")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "approved": true})
}

func (h *Handler) Duplicate(c *gin.Context) {
	id, ok := h.quotationID(c)
	if !ok {
		return
	}
	copyID, err := h.service.Duplicate(c.Request.Context(), id, c.GetInt64("employee_id"))
	if err != nil {
		h.writeError(c, err, "Failed to duplicate the quotation")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": copyID})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.quotationID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete the quotation")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// quotationID parses the :id path segment. A non-numeric id is rejected
// before any store round-trip.
func (h *Handler) quotationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Validation(c, "Invalid quotation id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Validation(c, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "Quotation not found")
	case errors.Is(err, ErrApproved):
		response.StateConflict(c, "The quotation is approved and can no longer be modified")
	default:
		response.Internal(c, fallback)
	}
}
