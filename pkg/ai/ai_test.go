package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var question = Question{
	Query:    "How do I treat fall armyworm on maize?",
	Language: "en",
	Notes:    []Note{{Source: "ZARI pest guide", Text: "Scout twice a week and apply neem extract early."}},
}

func TestMockAnswerIsLabelled(t *testing.T) {
	out, err := NewMock().Answer(context.Background(), question)
	require.NoError(t, err)
	assert.Contains(t, out, "[mock mode]")
	assert.Contains(t, out, "ZARI pest guide")

	out, err = NewMock().Answer(context.Background(), Question{Query: "hello there"})
	require.NoError(t, err)
	assert.Contains(t, out, "No matching knowledge notes")
}

func TestRenderPrompt(t *testing.T) {
	p := renderPrompt(question)
	assert.Contains(t, p, `"en"`)
	assert.Contains(t, p, question.Query)
	assert.Contains(t, p, "[1] ZARI pest guide")

	assert.NotContains(t, renderPrompt(Question{Query: "x"}), "KNOWLEDGE NOTES")
}

func TestOpenAIAnswer(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	var sent chatReq
	httpmock.RegisterResponder("POST", "https://llm.example.com/v1/chat/completions",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"choices": []map[string]any{{"message": map[string]string{"content": "  Use neem early.  "}}},
			})
		})

	out, err := NewOpenAI("https://llm.example.com/", "sk-test", "gpt-4o-mini").Answer(context.Background(), question)
	require.NoError(t, err)
	assert.Equal(t, "Use neem early.", out)
	assert.Equal(t, "gpt-4o-mini", sent.Model)
	require.Len(t, sent.Messages, 2)
	assert.Contains(t, sent.Messages[1]["content"], "neem extract")
}

func TestOpenAIFailuresAreUnavailable(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	c := NewOpenAI("https://llm.example.com", "k", "m")

	httpmock.RegisterResponder("POST", "https://llm.example.com/v1/chat/completions",
		httpmock.NewStringResponder(http.StatusTooManyRequests, `{"error":"quota"}`))
	_, err := c.Answer(context.Background(), question)
	assert.ErrorIs(t, err, ErrUnavailable)

	httpmock.RegisterResponder("POST", "https://llm.example.com/v1/chat/completions",
		httpmock.NewStringResponder(http.StatusOK, `{"choices":[]}`))
	_, err = c.Answer(context.Background(), question)
	assert.ErrorIs(t, err, ErrUnavailable)
}
