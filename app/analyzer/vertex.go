package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

const defaultVertexModel = "gemini-2.0-flash-001"

// VertexProvider calls a Gemini model on Vertex AI.
type VertexProvider struct {
	client    *genai.Client
	modelName string
}

func NewVertexProvider(ctx context.Context, project, location, model, credentialsFile string) (*VertexProvider, error) {
	if project == "" {
		return nil, errors.New("GOOGLE_CLOUD_PROJECT is not set")
	}
	if model == "" {
		model = defaultVertexModel
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := genai.NewClient(ctx, project, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("create Vertex AI client: %w", err)
	}
	return &VertexProvider{client: client, modelName: model}, nil
}

func (p *VertexProvider) Name() string {
	return "vertex"
}

func (p *VertexProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	model := p.client.GenerativeModel(p.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}
	model.ResponseMIMEType = "application/json"
	model.SetMaxOutputTokens(maxOutputTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("call Vertex AI: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	output := strings.TrimSpace(b.String())
	if output == "" {
		return "", errEmptyResponse
	}
	return output, nil
}

func (p *VertexProvider) Close() error {
	return p.client.Close()
}
