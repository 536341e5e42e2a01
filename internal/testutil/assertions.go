package testutil

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/dota-draft-assistant/internal/domain"
)

// PostJSON sends body as JSON and returns the response; the body is closed on cleanup.
func PostJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err, "failed to marshal request")

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err, "request failed")
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// ReadBody returns the full response body.
func ReadBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	return body
}

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body := ReadBody(t, resp)
	err := json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	// Error responses are plain text in this API
	body := ReadBody(t, resp)
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertSuggests verifies the suggested heroes, in order
func AssertSuggests(t *testing.T, result *domain.RecommendationResult, heroes ...domain.HeroID) {
	t.Helper()
	got := make([]domain.HeroID, len(result.SuggestedHeroes))
	for i, s := range result.SuggestedHeroes {
		got[i] = s.Name
	}
	assert.Equal(t, heroes, got, "unexpected suggested heroes")
}

// AssertNotSuggested verifies a hero is absent from the suggestions
func AssertNotSuggested(t *testing.T, result *domain.RecommendationResult, hero domain.HeroID) {
	t.Helper()
	for _, s := range result.SuggestedHeroes {
		assert.NotEqual(t, hero, s.Name, "hero %s should not be suggested", hero)
	}
}

// AssertWarningMentions verifies that some warning contains text
func AssertWarningMentions(t *testing.T, warnings []string, text string) {
	t.Helper()
	for _, w := range warnings {
		if strings.Contains(w, text) {
			return
		}
	}
	assert.Fail(t, "no warning mentions "+text, "warnings: %v", warnings)
}
