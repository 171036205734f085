package media

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/fhir-console/internal/handler"
	"github.com/jwalitptl/fhir-console/internal/model"
	"github.com/jwalitptl/fhir-console/internal/service/media"
	"github.com/jwalitptl/fhir-console/internal/service/submission"
	"github.com/jwalitptl/fhir-console/pkg/httputil"
)

type Handler struct {
	service *media.Service
}

func NewHandler(service *media.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/media")
	{
		items.GET("", h.List)
		items.POST("", h.Create)
		items.GET("/status", h.Status)
		items.DELETE("/status", h.DismissStatus)
		items.GET("/:id", h.Get)
		items.DELETE("/:id", h.Delete)
		items.GET("/:id/content", h.Content)
	}
}

func (h *Handler) List(c *gin.Context) {
	st, err := handler.ParseState(c, model.ParseMediaField)
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
	m, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, handler.MapError(err))
		return
	}
	httputil.RespondWithSuccess(c, m)
}

// Create persists one media item per uploaded file. The response carries
// the per-item outcomes; the aggregate is success only when every item
// was persisted, and items that landed before a failure stay persisted.
func (h *Handler) Create(c *gin.Context) {
	values, err := handler.FormValues(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	files, err := handler.EncodedFiles(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	outcomes, status, err := h.service.Create(c.Request.Context(), values, values["patient"], files)
	if err != nil {
		httputil.RespondWithError(c, handler.MapError(err))
		return
	}
	if status != submission.StatusSuccess {
		c.JSON(http.StatusBadGateway, httputil.Response{
			Success: false,
			Data:    gin.H{"status": status, "outcomes": outcomes},
			Error:   &httputil.Error{Code: http.StatusBadGateway, Message: "one or more media items failed to persist"},
		})
		return
	}
	httputil.RespondWithCreated(c, gin.H{"status": status, "outcomes": outcomes})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.RespondWithError(c, handler.MapError(err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

// Content serves the displayable data URI of a media item's attachment.
func (h *Handler) Content(c *gin.Context) {
	uri, err := h.service.ContentURI(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, handler.MapError(err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"content": uri})
}

func (h *Handler) Status(c *gin.Context) {
	httputil.RespondWithSuccess(c, gin.H{"status": h.service.Status()})
}

func (h *Handler) DismissStatus(c *gin.Context) {
	h.service.DismissStatus()
	httputil.RespondWithSuccess(c, gin.H{"status": h.service.Status()})
}
