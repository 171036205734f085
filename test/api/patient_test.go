package api_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patientFormValues(given, family string) url.Values {
	return url.Values{
		"identifier": {"MRN-" + given},
		"given":      {given},
		"family":     {family},
		"gender":     {"female"},
		"year":       {"1990"},
		"month":      {"4"},
		"day":        {"7"},
	}
}

func findPatientID(t *testing.T, given string) string {
	t.Helper()
	listResp := makeRequest(t, "GET", "/patients?search="+given+"&filter=name")
	entries := listResp.listEntries(t)
	require.NotEmpty(t, entries, "patient %s not listed", given)
	entry := entries[0].(map[string]any)
	id, _ := entry["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestPatientFlow(t *testing.T) {
	// Create
	createResp := makeFormRequest(t, http.MethodPost, "/patients", patientFormValues("Ada", "Lovelace"))
	require.True(t, createResp.IsSuccess(), "failed to create patient: %s", createResp.Message())
	assert.Equal(t, http.StatusCreated, createResp.StatusCode)

	// Submission status is visible and dismissible
	statusResp := makeRequest(t, "GET", "/patients/status")
	assert.Equal(t, "success", statusResp.Data["status"])
	dismissResp := makeRequest(t, "DELETE", "/patients/status")
	assert.Equal(t, "none", dismissResp.Data["status"])

	// List and search
	id := findPatientID(t, "Ada")

	// Get
	getResp := makeRequest(t, "GET", "/patients/"+id)
	require.True(t, getResp.IsSuccess())
	assert.Equal(t, "female", getResp.Data["gender"])
	assert.Equal(t, "1990-04-07", getResp.Data["birthDate"])

	// Update
	form := patientFormValues("Ada", "Byron")
	updateResp := makeFormRequest(t, http.MethodPut, "/patients/"+id, form)
	require.True(t, updateResp.IsSuccess(), "failed to update patient: %s", updateResp.Message())

	verifyResp := makeRequest(t, "GET", "/patients/"+id)
	require.True(t, verifyResp.IsSuccess())
	names := verifyResp.Data["name"].([]any)
	assert.Equal(t, "Byron", names[0].(map[string]any)["family"])

	// Delete
	deleteResp := makeRequest(t, "DELETE", "/patients/"+id)
	require.True(t, deleteResp.IsSuccess())

	missingResp := makeRequest(t, "GET", "/patients/"+id)
	assert.Equal(t, http.StatusNotFound, missingResp.StatusCode)
}

func TestPatientCreateMissingField(t *testing.T) {
	form := patientFormValues("Nofam", "X")
	form.Del("family")

	resp := makeFormRequest(t, http.MethodPost, "/patients", form)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, resp.IsSuccess())
}

func TestPatientInvalidGenderDegrades(t *testing.T) {
	form := patientFormValues("Quinn", "Doe")
	form.Set("gender", "not-a-code")

	resp := makeFormRequest(t, http.MethodPost, "/patients", form)
	require.True(t, resp.IsSuccess(), "submission must not be blocked by a bad enum: %s", resp.Message())

	id := findPatientID(t, "Quinn")
	getResp := makeRequest(t, "GET", "/patients/"+id)
	_, present := getResp.Data["gender"]
	assert.False(t, present, "invalid gender should be omitted, got %v", getResp.Data["gender"])
}

func TestPatientPhotos(t *testing.T) {
	resp := makeMultipartRequest(t, http.MethodPost, "/patients", map[string]string{
		"identifier": "MRN-Pix",
		"given":      "Pix",
		"family":     "Shutter",
		"gender":     "other",
		"year":       "1984",
		"month":      "1",
		"day":        "1",
	}, []upload{{name: "portrait.png", content: pngBytes}})
	require.True(t, resp.IsSuccess(), "failed to create patient with photo: %s", resp.Message())

	id := findPatientID(t, "Pix")
	photosResp := makeRequest(t, "GET", fmt.Sprintf("/patients/%s/photos", id))
	require.True(t, photosResp.IsSuccess())

	photos := photosResp.Data["photos"].([]any)
	require.Len(t, photos, 1)
	assert.Contains(t, photos[0].(string), "data:image/png;base64,")
}

func TestPatientListServesStalePageOnBackendFailure(t *testing.T) {
	createResp := makeFormRequest(t, http.MethodPost, "/patients", patientFormValues("Stale", "Marker"))
	require.True(t, createResp.IsSuccess())

	fresh := makeRequest(t, "GET", "/patients")
	require.True(t, fresh.IsSuccess())
	before := len(fresh.listEntries(t))
	require.Greater(t, before, 0)

	backend.setFailing(true)
	defer backend.setFailing(false)

	stale := makeRequest(t, "GET", "/patients")
	require.True(t, stale.IsSuccess())
	assert.Equal(t, "true", stale.Header.Get("X-Stale-Result"))
	assert.Len(t, stale.listEntries(t), before)
}
