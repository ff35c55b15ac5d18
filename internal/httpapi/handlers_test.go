package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attunetutor/attune/internal/config"
	"github.com/attunetutor/attune/internal/emotion"
	"github.com/attunetutor/attune/internal/llm"
	"github.com/attunetutor/attune/internal/logging"
	"github.com/attunetutor/attune/internal/session"
	"github.com/attunetutor/attune/internal/tutor"
	"github.com/attunetutor/attune/internal/vision"
)

type fixedClassifier struct {
	obs emotion.Observation
}

func (c fixedClassifier) Classify(ctx context.Context, frame vision.Frame) (emotion.Observation, error) {
	obs := c.obs
	obs.Timestamp = time.Now()
	return obs, nil
}

func newTestServer(t *testing.T, classifier fixedClassifier, turns ...llm.MockResponse) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Sampler.MinSpacingSeconds = 0.000001

	manager := session.NewManager(
		classifier,
		tutor.NewService(llm.NewMockProvider(turns...), tutor.DefaultConfig()),
		nil,
		cfg,
		logging.NewNop(),
	)
	t.Cleanup(manager.Shutdown)

	handler := NewHandler(context.Background(), manager, logging.NewNop())
	srv := httptest.NewServer(NewRouter(handler, logging.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func startSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json",
		bytes.NewBufferString(`{"user_id":"u1","activity":"learning","topic":"binary search"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var state session.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	require.NotEmpty(t, state.SessionID)
	return state.SessionID
}

func engagedClassifier() fixedClassifier {
	return fixedClassifier{obs: emotion.Observation{Emotion: emotion.Engaged, Confidence: 0.9, FaceVisible: true}}
}

func TestStartSession(t *testing.T) {
	srv := newTestServer(t, engagedClassifier())

	resp, err := http.Post(srv.URL+"/api/sessions", "application/json",
		bytes.NewBufferString(`{"user_id":"u1","topic":"heaps"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var state session.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, "u1", state.UserID)
	assert.Equal(t, "heaps", state.Topic)
	assert.Equal(t, 0, state.EventCount)
	assert.Equal(t, emotion.Neutral, state.CurrentEmotion)
}

func TestStartSessionValidation(t *testing.T) {
	srv := newTestServer(t, engagedClassifier())

	tests := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"topic":"heaps"}`},
		{"unknown activity", `{"user_id":"u1","activity":"sleeping"}`},
		{"malformed body", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/sessions", "application/json", bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSubmitFrameAndState(t *testing.T) {
	srv := newTestServer(t, engagedClassifier())
	id := startSession(t, srv)

	frame := base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff})
	body := fmt.Sprintf(`{"mime":"image/jpeg","data":%q}`, frame)
	resp, err := http.Post(srv.URL+"/api/sessions/"+id+"/frames", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var issued map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&issued))
	assert.True(t, issued["issued"])

	// Classification completes asynchronously.
	var state session.State
	deadline := time.Now().Add(2 * time.Second)
	for {
		stateResp, err := http.Get(srv.URL + "/api/sessions/" + id + "/state")
		require.NoError(t, err)
		require.NoError(t, json.NewDecoder(stateResp.Body).Decode(&state))
		stateResp.Body.Close()
		if state.EventCount > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	require.Equal(t, 1, state.EventCount)
	assert.Equal(t, emotion.Engaged, state.CurrentEmotion)
	require.NotNil(t, state.Latest)
	assert.True(t, state.Latest.Observation.FaceVisible)
}

func TestSubmitFrameValidation(t *testing.T) {
	srv := newTestServer(t, engagedClassifier())
	id := startSession(t, srv)

	resp, err := http.Post(srv.URL+"/api/sessions/"+id+"/frames", "application/json",
		bytes.NewBufferString(`{"mime":"image/jpeg"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownSessionIs404(t *testing.T) {
	srv := newTestServer(t, engagedClassifier())

	for _, path := range []string{
		"/api/sessions/nope/state",
		"/api/sessions/nope/insights",
		"/api/sessions/nope/effectiveness",
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestTurnEndpoint(t *testing.T) {
	srv := newTestServer(t, engagedClassifier(), llm.MockResponse{Content: turnJSON()})
	id := startSession(t, srv)

	resp, err := http.Post(srv.URL+"/api/sessions/"+id+"/turns", "application/json",
		bytes.NewBufferString(`{"question":"why sorted input?"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var exp tutor.Explanation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&exp))
	assert.Equal(t, "binary search", exp.Topic)
	assert.NotEmpty(t, exp.Definition)
}

func TestTurnEndpointProviderDown(t *testing.T) {
	// No canned responses: every Generate call fails as unavailable.
	srv := newTestServer(t, engagedClassifier())
	id := startSession(t, srv)

	resp, err := http.Post(srv.URL+"/api/sessions/"+id+"/turns", "application/json",
		bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestEndSession(t *testing.T) {
	srv := newTestServer(t, engagedClassifier())
	id := startSession(t, srv)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/sessions/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Ended sessions are gone.
	stateResp, err := http.Get(srv.URL + "/api/sessions/" + id + "/state")
	require.NoError(t, err)
	stateResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, stateResp.StatusCode)

	req2, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/sessions/"+id, nil)
	require.NoError(t, err)
	resp2, err := http.DefaultClient.Do(req2)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, engagedClassifier())

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func turnJSON() json.RawMessage {
	return json.RawMessage(`{
		"acknowledgement": "Good momentum, let's push further.",
		"definition": "Binary search halves the candidate range each step.",
		"intuition": "Like guessing a number with higher/lower hints.",
		"steps": ["compare middle", "discard half", "repeat"],
		"diagram": "[lo .. mid .. hi]",
		"code": "for lo <= hi { ... }",
		"time_complexity": "O(log n)",
		"space_complexity": "O(1)",
		"takeaways": ["needs sorted input"]
	}`)
}
