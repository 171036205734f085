// Package handler holds the shared HTTP plumbing for the resource
// handlers: query state parsing, multipart form extraction and the
// liveness surface.
package handler

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/fhir-console/internal/builder"
	"github.com/jwalitptl/fhir-console/internal/fhir"
	"github.com/jwalitptl/fhir-console/internal/query"
	"github.com/jwalitptl/fhir-console/pkg/attachment"
	"github.com/jwalitptl/fhir-console/pkg/errors"
)

// Multipart bodies above this size spill to disk.
const maxUploadMemory = 32 << 20

// FieldParser validates a raw filter or sort parameter for one resource
// kind. An empty raw value is valid and means "no attribute selected".
type FieldParser func(raw string) (query.Field, error)

// ParseState reads the listing parameters of a request: free-text search,
// filter and sort attributes, and the _count/_offset fetch window.
func ParseState(c *gin.Context, parse FieldParser) (query.State, error) {
	st := query.NewState()

	if raw := c.Query("_count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return st, errors.BadRequest("invalid _count parameter", err)
		}
		st.SetCount(n)
	}
	if raw := c.Query("_offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return st, errors.BadRequest("invalid _offset parameter", err)
		}
		st.SetOffset(n)
	}

	st.Search = c.Query("search")

	filter, err := parse(c.Query("filter"))
	if err != nil {
		return st, errors.BadRequest("invalid filter attribute", err)
	}
	st.FilterField = filter

	sortField, err := parse(c.Query("sort"))
	if err != nil {
		return st, errors.BadRequest("invalid sort attribute", err)
	}
	st.SortField = sortField

	return st, nil
}

// FormValues extracts the scalar form fields of a submission. Multipart
// and urlencoded bodies are both accepted; repeated keys keep their first
// value.
func FormValues(c *gin.Context) (builder.FormValues, error) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil && !stderrors.Is(err, http.ErrNotMultipart) {
		return nil, errors.BadRequest("malformed form body", err)
	}

	values := builder.FormValues{}
	for key, vals := range c.Request.PostForm {
		if len(vals) > 0 {
			values[key] = vals[0]
		}
	}
	return values, nil
}

// EncodedFiles encodes the uploads attached under the "files" form key.
// A request without uploads yields an empty batch.
func EncodedFiles(c *gin.Context) ([]attachment.EncodedFile, error) {
	form := c.Request.MultipartForm
	if form == nil || len(form.File["files"]) == 0 {
		return []attachment.EncodedFile{}, nil
	}

	readers := make([]attachment.NamedReader, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return nil, errors.BadRequest("unreadable upload "+fh.Filename, err)
		}
		defer f.Close()
		readers = append(readers, attachment.NamedReader{Name: fh.Filename, Reader: f})
	}

	encoded, err := attachment.EncodeAll(readers)
	if err != nil {
		return nil, errors.BadRequest("failed to encode uploads", err)
	}
	return encoded, nil
}

// MapError translates lower-layer failures into the API error surface.
// Build errors are the caller's fault; upstream status codes keep their
// not-found and auth semantics, everything else from the resource server
// is a bad gateway.
func MapError(err error) error {
	var buildErr *builder.BuildError
	if stderrors.As(err, &buildErr) {
		return errors.BadRequest(buildErr.Error(), err)
	}

	var statusErr *fhir.StatusError
	if stderrors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusNotFound, http.StatusGone:
			return errors.NotFound("resource", err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.Unauthorized(err)
		}
		return errors.Upstream("resource server request", err)
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.Upstream("resource server request", err)
}
