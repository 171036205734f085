package fhir

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/fhir-console/internal/model"
	"github.com/jwalitptl/fhir-console/pkg/auth"
	"github.com/jwalitptl/fhir-console/pkg/circuitbreaker"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil, nil, nil, nil)
}

func bundleWith(resources ...any) map[string]any {
	entries := make([]map[string]any, 0, len(resources))
	for _, r := range resources {
		entries = append(entries, map[string]any{"resource": r})
	}
	return map[string]any{
		"resourceType": "Bundle",
		"type":         "searchset",
		"entry":        entries,
	}
}

func TestSearchPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fhir/Patient", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("_count"))
		assert.Equal(t, "20", r.URL.Query().Get("_offset"))
		json.NewEncoder(w).Encode(bundleWith(
			map[string]any{"resourceType": "Patient", "id": "p1"},
			map[string]any{"resourceType": "Patient", "id": "p2"},
		))
	})

	records, err := SearchPage[*model.Patient](context.Background(), client, model.ResourcePatient, PageParams{Count: 10, Offset: 20})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "p1", records[0].ID)
	assert.Equal(t, "p2", records[1].ID)
}

func TestSearchPageSubjectScope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Patient/p1", r.URL.Query().Get("subject"))
		json.NewEncoder(w).Encode(bundleWith())
	})

	_, err := SearchPage[*model.Observation](context.Background(), client, model.ResourceObservation, PageParams{Count: 10, Subject: "Patient/p1"})
	require.NoError(t, err)
}

func TestSearchPageAbsentEntryIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"resourceType": "Bundle", "type": "searchset"})
	})

	records, err := SearchPage[*model.Patient](context.Background(), client, model.ResourcePatient, PageParams{Count: 10})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchPageMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := SearchPage[*model.Patient](context.Background(), client, model.ResourcePatient, PageParams{Count: 10})
	assert.Error(t, err)
}

func TestRequestErrorCarriesStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	var p model.Patient
	err := client.Get(context.Background(), model.ResourcePatient, "missing", &p)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestRequestAttachesBearerToken(t *testing.T) {
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		json.NewEncoder(w).Encode(bundleWith())
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL}, auth.NewStaticTokenSource("tkn"), nil, nil, nil)
	_, err := SearchPage[*model.Patient](context.Background(), client, model.ResourcePatient, PageParams{Count: 1})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tkn", gotAuth)
	assert.Equal(t, "application/fhir+json", gotAccept)
}

func TestCreateAndUpdateAndDelete(t *testing.T) {
	var method, path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusCreated)
	})
	ctx := context.Background()

	require.NoError(t, client.Create(ctx, model.ResourcePatient, &model.Patient{ResourceType: "Patient"}))
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/fhir/Patient", path)

	require.NoError(t, client.Update(ctx, model.ResourcePatient, "p1", &model.Patient{}))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/fhir/Patient/p1", path)

	require.NoError(t, client.Delete(ctx, model.ResourcePatient, "p1"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/fhir/Patient/p1", path)
}

func TestClientHonorsOpenBreaker(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	breaker := circuitbreaker.New(circuitbreaker.Settings{Name: "test", MaxFailures: 1, Timeout: time.Minute})
	client := NewClient(Config{BaseURL: srv.URL}, nil, breaker, nil, nil)
	ctx := context.Background()

	require.Error(t, client.Delete(ctx, model.ResourcePatient, "p1"))
	err := client.Delete(ctx, model.ResourcePatient, "p1")
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, 1, calls)
}
