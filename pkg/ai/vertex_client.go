package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type vertex struct {
	client *genai.Client
	model  string
}

// NewVertex answers with a Gemini model on Vertex AI using application
// default credentials.
func NewVertex(ctx context.Context, project, location, model string) (Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  project,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}
	return &vertex{client: client, model: model}, nil
}

func (v *vertex) Name() string { return "vertex:" + v.model }

func (v *vertex) Answer(ctx context.Context, q Question) (string, error) {
	resp, err := v.client.Models.GenerateContent(ctx, v.model, genai.Text(renderPrompt(q)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.2),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty answer", ErrUnavailable)
	}
	return text, nil
}
