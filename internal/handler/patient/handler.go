package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/fhir-console/internal/handler"
	"github.com/jwalitptl/fhir-console/internal/model"
	"github.com/jwalitptl/fhir-console/internal/service/patient"
	"github.com/jwalitptl/fhir-console/internal/service/submission"
	"github.com/jwalitptl/fhir-console/pkg/errors"
	"github.com/jwalitptl/fhir-console/pkg/httputil"
)

type Handler struct {
	service *patient.Service
}

func NewHandler(service *patient.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.List)
		patients.POST("", h.Create)
		patients.GET("/status", h.Status)
		patients.DELETE("/status", h.DismissStatus)
		patients.GET("/:id", h.Get)
		patients.PUT("/:id", h.Update)
		patients.DELETE("/:id", h.Delete)
		patients.GET("/:id/photos", h.Photos)
	}
}

// List serves the filtered, sorted page view. A failed refresh does not
// blank the table: the previous page is served with a stale marker.
func (h *Handler) List(c *gin.Context) {
	st, err := handler.ParseState(c, model.ParsePatientField)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	records, err := h.service.List(c.Request.Context(), st)
	if err != nil {
		c.Header("X-Stale-Result", "true")
	}
	httputil.RespondWithList(c, records, st.Count, st.Offset, len(records))
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, handler.MapError(err))
		return
	}
	httputil.RespondWithSuccess(c, p)
}

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

	status, err := h.service.Create(c.Request.Context(), values, files)
	if err != nil {
		httputil.RespondWithError(c, handler.MapError(err))
		return
	}
	if status != submission.StatusSuccess {
		httputil.RespondWithError(c, errors.Upstream("patient submission", nil))
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
	files, err := handler.EncodedFiles(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	status, err := h.service.Update(c.Request.Context(), c.Param("id"), values, files)
	if err != nil {
		httputil.RespondWithError(c, handler.MapError(err))
		return
	}
	if status != submission.StatusSuccess {
		httputil.RespondWithError(c, errors.Upstream("patient submission", nil))
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

// Photos serves the displayable data URIs of a patient's photo
// attachments.
func (h *Handler) Photos(c *gin.Context) {
	uris, err := h.service.Photos(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, handler.MapError(err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"photos": uris})
}

func (h *Handler) Status(c *gin.Context) {
	httputil.RespondWithSuccess(c, gin.H{"status": h.service.Status()})
}

func (h *Handler) DismissStatus(c *gin.Context) {
	h.service.DismissStatus()
	httputil.RespondWithSuccess(c, gin.H{"status": h.service.Status()})
}
