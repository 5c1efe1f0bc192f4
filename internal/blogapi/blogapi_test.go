package blogapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/estoque/internal/db"
	"github.com/erazemk/estoque/internal/server"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t, db.Microblog)
	ts := httptest.NewServer(NewRouter(database, server.NewMetrics(server.NewRegistry())))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return resp, out
}

func TestUsersLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := do(t, "GET", ts.URL+"/users", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["users"])
	assert.NotEmpty(t, resp.Header.Get(server.RequestIDHeader))

	resp, body = do(t, "POST", ts.URL+"/users", map[string]string{
		"nickname": "john", "email": "john@example.com", "about_me": "hi",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "john", body["nickname"])
	assert.Equal(t, []any{}, body["posts"])
	id := int(body["id"].(float64))

	resp, body = do(t, "GET", fmt.Sprintf("%s/users/%d", ts.URL, id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "hi", user["about_me"])

	resp, _ = do(t, "POST", ts.URL+"/users", map[string]string{"nickname": "john", "email": "x@example.com"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = do(t, "POST", ts.URL+"/users", map[string]string{"nickname": "nobody"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["message"])
}

func TestGetUserNotFound(t *testing.T) {
	ts := setupTestServer(t)

	do(t, "POST", ts.URL+"/users", map[string]string{"nickname": "a", "email": "a@example.com"})

	resp, body := do(t, "GET", ts.URL+"/users/42", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "user not found", body["message"])

	resp, _ = do(t, "GET", ts.URL+"/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPosts(t *testing.T) {
	ts := setupTestServer(t)

	_, user := do(t, "POST", ts.URL+"/users", map[string]string{"nickname": "mary", "email": "mary@example.com"})
	uid := user["id"]

	resp, body := do(t, "POST", ts.URL+"/posts", map[string]any{"body": "hello", "language": "en", "user_id": uid})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	author := body["author"].(map[string]any)
	assert.Equal(t, "mary", author["nickname"])
	pid := int(body["id"].(float64))

	resp, body = do(t, "GET", fmt.Sprintf("%s/posts/%d", ts.URL, pid), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", body["post"].(map[string]any)["body"])

	resp, body = do(t, "GET", ts.URL+"/posts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["posts"], 1)

	resp, _ = do(t, "POST", ts.URL+"/posts", map[string]any{"body": "lost", "user_id": 999})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, "GET", ts.URL+"/posts/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFollowEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	_, a := do(t, "POST", ts.URL+"/users", map[string]string{"nickname": "a", "email": "a@example.com"})
	_, b := do(t, "POST", ts.URL+"/users", map[string]string{"nickname": "b", "email": "b@example.com"})
	followURL := fmt.Sprintf("%s/users/%d/follow/%d", ts.URL, int(a["id"].(float64)), int(b["id"].(float64)))

	_, body := do(t, "GET", followURL, nil)
	assert.Equal(t, false, body["following"])

	resp, body := do(t, "POST", followURL, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotNil(t, body["edge"])

	resp, _ = do(t, "POST", followURL, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = do(t, "GET", followURL, nil)
	assert.Equal(t, true, body["following"])

	resp, _ = do(t, "POST", fmt.Sprintf("%s/users/%d/follow/999", ts.URL, int(a["id"].(float64))), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPopulate(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := do(t, "GET", ts.URL+"/populate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Data populated", body["message"])

	_, body = do(t, "GET", ts.URL+"/users", nil)
	users := body["users"].([]any)
	require.Len(t, users, 4)

	ids := map[string]int{}
	for _, u := range users {
		m := u.(map[string]any)
		ids[m["nickname"].(string)] = int(m["id"].(float64))
	}

	_, body = do(t, "GET", fmt.Sprintf("%s/users/%d/follow/%d", ts.URL, ids["john"], ids["mary"]), nil)
	assert.Equal(t, false, body["following"])
	_, body = do(t, "GET", fmt.Sprintf("%s/users/%d/follow/%d", ts.URL, ids["john"], ids["susan"]), nil)
	assert.Equal(t, true, body["following"])

	resp, _ = do(t, "GET", ts.URL+"/populate", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	do(t, "GET", ts.URL+"/users", nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `route="GET /users"`)
}
