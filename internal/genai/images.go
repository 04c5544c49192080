package genai

import (
	"context"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIImages is an ImageClient backed by the OpenAI images API.
type OpenAIImages struct {
	client openai.Client
	model  openai.ImageModel
}

// NewOpenAIImages creates an image client. An empty model falls back to
// DALL-E 3; baseURL is optional.
func NewOpenAIImages(apiKey, baseURL, model string) *OpenAIImages {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	m := openai.ImageModelDallE3
	if model != "" {
		m = openai.ImageModel(model)
	}
	return &OpenAIImages{
		client: openai.NewClient(opts...),
		model:  m,
	}
}

// Generate produces one landscape image and returns its hosted URL.
func (c *OpenAIImages) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  c.model,
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1792x1024,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].URL, nil
}
