package sanity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(Config{
		ProjectID:  "testproj",
		Dataset:    "production",
		APIVersion: "2024-01-01",
		Token:      token,
		BaseURL:    ts.URL,
		Timeout:    2 * time.Second,
	})
}

func TestQueryEncodesGROQAndParams(t *testing.T) {
	var gotPath, gotQuery, gotParam, gotAuth string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		gotParam = r.URL.Query().Get("$slug")
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"result": [{"_id": "doc-1"}]}`)
	}, "secret-token")

	raw, err := client.Query(context.Background(), `*[_type == "post" && slug.current == $slug]`, map[string]any{"slug": "hello"})
	require.NoError(t, err)

	assert.Equal(t, "/v2024-01-01/data/query/production", gotPath)
	assert.Equal(t, `*[_type == "post" && slug.current == $slug]`, gotQuery)
	assert.Equal(t, `"hello"`, gotParam, "params are JSON-encoded")
	assert.Equal(t, "Bearer secret-token", gotAuth)

	var docs []struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(raw, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-1", docs[0].ID)
}

func TestQueryReturnsErrorOnBadStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "query parse error", http.StatusBadRequest)
	}, "")

	_, err := client.Query(context.Background(), "*[]", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestCreatePostsMutationAndReturnsID(t *testing.T) {
	var gotBody map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2024-01-01/data/mutate/production", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("returnIds"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		fmt.Fprint(w, `{"transactionId": "tx1", "results": [{"id": "sub-42"}]}`)
	}, "write-token")

	id, err := client.Create(context.Background(), map[string]any{"_type": "contactSubmission", "email": "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "sub-42", id)

	mutations, ok := gotBody["mutations"].([]any)
	require.True(t, ok)
	require.Len(t, mutations, 1)
	create := mutations[0].(map[string]any)["create"].(map[string]any)
	assert.Equal(t, "contactSubmission", create["_type"])
}

func TestCreateRequiresToken(t *testing.T) {
	client := NewClient(Config{ProjectID: "p", Dataset: "d"})
	_, err := client.Create(context.Background(), map[string]any{"_type": "contactSubmission"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestQueryHostSelection(t *testing.T) {
	cdn := NewClient(Config{ProjectID: "proj", Dataset: "d", UseCDN: true})
	assert.Equal(t, "https://proj.apicdn.sanity.io", cdn.queryHost())
	// Mutations never go through the CDN.
	assert.Equal(t, "https://proj.api.sanity.io", cdn.mutateHost())

	direct := NewClient(Config{ProjectID: "proj", Dataset: "d"})
	assert.Equal(t, "https://proj.api.sanity.io", direct.queryHost())
}
