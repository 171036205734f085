package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediaFields(identifier string) map[string]string {
	return map[string]string{
		"identifier": identifier,
		"status":     "completed",
		"type":       "image",
		"patient":    "pat-7",
		"year":       "2024",
		"month":      "5",
		"day":        "2",
		"hour":       "11",
		"minute":     "45",
	}
}

func TestMediaFlow(t *testing.T) {
	createResp := makeMultipartRequest(t, http.MethodPost, "/media", mediaFields("IMG-FLOW"), []upload{
		{name: "front.png", content: pngBytes},
		{name: "side.png", content: pngBytes},
	})
	require.True(t, createResp.IsSuccess(), "failed to create media: %s", createResp.Message())
	assert.Equal(t, http.StatusCreated, createResp.StatusCode)

	outcomes := createResp.Data["outcomes"].([]any)
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.Equal(t, "success", o.(map[string]any)["status"])
	}

	statusResp := makeRequest(t, "GET", "/media/status")
	assert.Equal(t, "success", statusResp.Data["status"])

	listResp := makeRequest(t, "GET", "/media?search=IMG-FLOW&filter=identifier")
	entries := listResp.listEntries(t)
	require.Len(t, entries, 2)

	id, _ := entries[0].(map[string]any)["id"].(string)
	require.NotEmpty(t, id)

	getResp := makeRequest(t, "GET", "/media/"+id)
	require.True(t, getResp.IsSuccess())
	assert.Equal(t, "completed", getResp.Data["status"])
	assert.Equal(t, "2024-05-02T11:45:00+02:00", getResp.Data["createdDateTime"])

	contentResp := makeRequest(t, "GET", fmt.Sprintf("/media/%s/content", id))
	require.True(t, contentResp.IsSuccess())
	assert.Contains(t, contentResp.Data["content"].(string), "data:image/png;base64,")

	deleteResp := makeRequest(t, "DELETE", "/media/"+id)
	require.True(t, deleteResp.IsSuccess())
}

func TestMediaCreateWithoutFiles(t *testing.T) {
	createResp := makeMultipartRequest(t, http.MethodPost, "/media", mediaFields("IMG-EMPTY"), nil)
	require.True(t, createResp.IsSuccess(), "empty selection must succeed: %s", createResp.Message())

	outcomes, present := createResp.Data["outcomes"].([]any)
	if present {
		assert.Empty(t, outcomes)
	}
}

func TestMediaInvalidTypeDegrades(t *testing.T) {
	fields := mediaFields("IMG-BADTYPE")
	fields["type"] = "hologram"

	createResp := makeMultipartRequest(t, http.MethodPost, "/media", fields, []upload{
		{name: "h.png", content: pngBytes},
	})
	require.True(t, createResp.IsSuccess(), "submission must not be blocked by a bad enum: %s", createResp.Message())

	listResp := makeRequest(t, "GET", "/media?search=IMG-BADTYPE&filter=identifier")
	entries := listResp.listEntries(t)
	require.Len(t, entries, 1)

	entry := entries[0].(map[string]any)
	coding := entry["type"].(map[string]any)["coding"].([]any)[0].(map[string]any)
	assert.Equal(t, "image", coding["code"])
}
