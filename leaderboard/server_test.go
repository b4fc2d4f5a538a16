package leaderboard

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(testStore(t), 10, zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestServer_Register(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"new", `{"username":"PLAYER 1"}`, http.StatusOK},
		{"again", `{"username":"player 1"}`, http.StatusConflict},
		{"blank", `{"username":"   "}`, http.StatusBadRequest},
		{"too long", `{"username":"ABCDEFGHIJKLMNOPQ"}`, http.StatusBadRequest},
		{"control char", `{"username":"A\u0007B"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp, _ := do(t, srv, http.MethodPost, "/register", test.body)
			assert.Equal(t, test.status, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
		})
	}
}

func TestServer_SubmitAndLeaderboard(t *testing.T) {
	srv := testServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/register", `{"username":"ZED"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/submit", `{"username":"ZED","score":1200}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/submit", `{"username":"NOBODY","score":10}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/submit", `{"username":"ZED","score":-5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, srv, http.MethodGet, "/leaderboard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var top []Entry
	require.NoError(t, json.Unmarshal([]byte(body), &top))
	assert.Equal(t, []Entry{{Name: "ZED", Score: 1200}}, top)
	assert.Contains(t, body, `"high_score":1200`)
}

func TestServer_EmptyLeaderboardIsArray(t *testing.T) {
	srv := testServer(t)
	_, body := do(t, srv, http.MethodGet, "/leaderboard", "")
	assert.JSONEq(t, `[]`, body)
}

func TestServer_HealthAndNotFound(t *testing.T) {
	srv := testServer(t)

	resp, body := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, body)

	resp, body = do(t, srv, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"not_found"}`, body)
}
