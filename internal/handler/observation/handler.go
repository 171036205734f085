package observation

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/fhir-console/internal/handler"
	"github.com/jwalitptl/fhir-console/internal/model"
	"github.com/jwalitptl/fhir-console/internal/service/observation"
	"github.com/jwalitptl/fhir-console/internal/service/submission"
	"github.com/jwalitptl/fhir-console/pkg/errors"
	"github.com/jwalitptl/fhir-console/pkg/httputil"
)

type Handler struct {
	service *observation.Service
}

func NewHandler(service *observation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	observations := r.Group("/observations")
	{
		observations.GET("", h.List)
		observations.POST("", h.Create)
		observations.GET("/status", h.Status)
		observations.DELETE("/status", h.DismissStatus)
		observations.GET("/:id", h.Get)
		observations.PUT("/:id", h.Update)
		observations.DELETE("/:id", h.Delete)
	}
}

// List serves the observation page view, optionally scoped to one patient
// via the subject query parameter.
func (h *Handler) List(c *gin.Context) {
	st, err := handler.ParseState(c, model.ParseObservationField)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	records, err := h.service.List(c.Request.Context(), st, c.Query("subject"))
	if err != nil {
		c.Header("X-Stale-Result", "true")
	}
	httputil.RespondWithList(c, records, st.Count, st.Offset, len(records))
}

func (h *Handler) Get(c *gin.Context) {
	o, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, handler.MapError(err))
		return
	}
	httputil.RespondWithSuccess(c, o)
}

func (h *Handler) Create(c *gin.Context) {
	values, err := handler.FormValues(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	status, err := h.service.Create(c.Request.Context(), values, values["patient"])
	if err != nil {
		httputil.RespondWithError(c, handler.MapError(err))
		return
	}
	if status != submission.StatusSuccess {
		httputil.RespondWithError(c, errors.Upstream("observation submission", nil))
		return
	}
	httputil.RespondWithCreated(c, gin.H{"status": status})
}

func (h *Handler) Update(c *gin.Context) {
	values, err := handler.FormValues(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	status, err := h.service.Update(c.Request.Context(), c.Param("id"), values, values["patient"])
	if err != nil {
		httputil.RespondWithError(c, handler.MapError(err))
		return
	}
	if status != submission.StatusSuccess {
		httputil.RespondWithError(c, errors.Upstream("observation submission", nil))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"status": status})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.RespondWithError(c, handler.MapError(err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) Status(c *gin.Context) {
	httputil.RespondWithSuccess(c, gin.H{"status": h.service.Status()})
}

func (h *Handler) DismissStatus(c *gin.Context) {
	h.service.DismissStatus()
	httputil.RespondWithSuccess(c, gin.H{"status": h.service.Status()})
}
