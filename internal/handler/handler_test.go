package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/fhir-console/internal/builder"
	"github.com/jwalitptl/fhir-console/internal/fhir"
	"github.com/jwalitptl/fhir-console/internal/model"
	"github.com/jwalitptl/fhir-console/pkg/errors"
)

func ginContext(t *testing.T, req *http.Request) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestParseState(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := ginContext(t, httptest.NewRequest(http.MethodGet, "/patients", nil))
		st, err := ParseState(c, model.ParsePatientField)
		require.NoError(t, err)
		assert.Equal(t, 20, st.Count)
		assert.Equal(t, 0, st.Offset)
		assert.Empty(t, st.Search)
	})

	t.Run("full parameter set", func(t *testing.T) {
		c := ginContext(t, httptest.NewRequest(http.MethodGet,
			"/patients?_count=5&_offset=10&search=ada&filter=name&sort=family", nil))
		st, err := ParseState(c, model.ParsePatientField)
		require.NoError(t, err)
		assert.Equal(t, 5, st.Count)
		assert.Equal(t, 10, st.Offset)
		assert.Equal(t, "ada", st.Search)
		assert.Equal(t, model.PatientFieldName, st.FilterField)
		assert.Equal(t, model.PatientFieldFamily, st.SortField)
	})

	t.Run("negative offset clamps to zero", func(t *testing.T) {
		c := ginContext(t, httptest.NewRequest(http.MethodGet, "/patients?_offset=-30", nil))
		st, err := ParseState(c, model.ParsePatientField)
		require.NoError(t, err)
		assert.Equal(t, 0, st.Offset)
	})

	t.Run("non-numeric window is rejected", func(t *testing.T) {
		c := ginContext(t, httptest.NewRequest(http.MethodGet, "/patients?_count=lots", nil))
		_, err := ParseState(c, model.ParsePatientField)
		assert.Error(t, err)
	})

	t.Run("unknown attribute is rejected", func(t *testing.T) {
		c := ginContext(t, httptest.NewRequest(http.MethodGet, "/patients?filter=shoeSize", nil))
		_, err := ParseState(c, model.ParsePatientField)
		assert.Error(t, err)
	})
}

func TestFormValues(t *testing.T) {
	t.Run("urlencoded body", func(t *testing.T) {
		form := url.Values{"given": {"Ada"}, "family": {"Lovelace"}}
		req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		values, err := FormValues(ginContext(t, req))
		require.NoError(t, err)
		assert.Equal(t, "Ada", values["given"])
		assert.Equal(t, "Lovelace", values["family"])
	})

	t.Run("multipart body with uploads", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("given", "Ada"))
		fw, err := mw.CreateFormFile("files", "photo.png")
		require.NoError(t, err)
		fw.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0})
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/patients", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		c := ginContext(t, req)

		values, err := FormValues(c)
		require.NoError(t, err)
		assert.Equal(t, "Ada", values["given"])

		files, err := EncodedFiles(c)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "photo.png", files[0].Name)
		assert.Contains(t, files[0].DataURI, "base64,")
	})

	t.Run("no uploads yields empty batch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(""))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		c := ginContext(t, req)

		_, err := FormValues(c)
		require.NoError(t, err)
		files, err := EncodedFiles(c)
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}

func TestMapError(t *testing.T) {
	t.Run("build error is the caller's fault", func(t *testing.T) {
		err := MapError(&builder.BuildError{Field: "given"})
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrBadRequest, appErr.Code)
	})

	t.Run("upstream 404 keeps not-found semantics", func(t *testing.T) {
		err := MapError(&fhir.StatusError{StatusCode: http.StatusNotFound})
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("upstream 401 keeps auth semantics", func(t *testing.T) {
		err := MapError(&fhir.StatusError{StatusCode: http.StatusUnauthorized})
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrUnauthorized, appErr.Code)
	})

	t.Run("other upstream failures are a bad gateway", func(t *testing.T) {
		err := MapError(&fhir.StatusError{StatusCode: http.StatusInternalServerError})
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrUpstream, appErr.Code)

		err = MapError(assert.AnError)
		appErr, ok = err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrUpstream, appErr.Code)
	})
}
