package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	maxOutputTokens    = 2048
)

// ErrMissingAPIKey is returned when OPENAI_API_KEY was not configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// OpenAIProvider calls the OpenAI Responses API.
type OpenAIProvider struct {
	client *openai.Client
	model  shared.ResponsesModel
}

// NewOpenAIProvider builds a provider for apiKey. Extra options are passed to
// the SDK client, which tests use to point it at a local server.
func NewOpenAIProvider(apiKey, model string, opts ...option.RequestOption) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIProvider{client: &client, model: shared.ResponsesModel(model)}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := p.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           p.model,
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(system, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("call OpenAI: %w", err)
	}

	output := strings.TrimSpace(resp.OutputText())
	if output == "" {
		return "", errEmptyResponse
	}
	return output, nil
}
