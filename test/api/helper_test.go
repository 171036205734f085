package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	StatusCode int
	Header     http.Header
	Success    bool           `json:"success"`
	Data       map[string]any `json:"data"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (r *apiResponse) IsSuccess() bool {
	return r.Success
}

func (r *apiResponse) Message() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Message
}

// listEntries unwraps the paginated list envelope into its records.
func (r *apiResponse) listEntries(t *testing.T) []any {
	t.Helper()
	inner, ok := r.Data["data"].([]any)
	if !ok && r.Data["data"] == nil {
		return nil
	}
	require.True(t, ok, "list envelope missing data: %v", r.Data)
	return inner
}

func doRequest(t *testing.T, req *http.Request) *apiResponse {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := &apiResponse{StatusCode: resp.StatusCode, Header: resp.Header}
	require.NoError(t, json.Unmarshal(body, out), "unparseable response: %s", body)
	return out
}

func makeRequest(t *testing.T, method, path string) *apiResponse {
	t.Helper()
	req, err := http.NewRequest(method, apiServer.URL+"/api/v1"+path, nil)
	require.NoError(t, err)
	return doRequest(t, req)
}

func makeFormRequest(t *testing.T, method, path string, form url.Values) *apiResponse {
	t.Helper()
	req, err := http.NewRequest(method, apiServer.URL+"/api/v1"+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return doRequest(t, req)
}

type upload struct {
	name    string
	content []byte
}

func makeMultipartRequest(t *testing.T, method, path string, fields map[string]string, uploads []upload) *apiResponse {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	for _, u := range uploads {
		fw, err := mw.CreateFormFile("files", u.name)
		require.NoError(t, err)
		_, err = fw.Write(u.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(method, apiServer.URL+"/api/v1"+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return doRequest(t, req)
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
