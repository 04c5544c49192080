package genai

import (
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/romeonoobcode/Trip-daddy-paywall/internal/types"
)

// NewModel builds a chat model for the configured provider. Supported
// providers are "openai", "anthropic", and "ollama"; an empty API key
// falls through to the provider SDK's environment lookup.
func NewModel(provider, modelName, apiKey string) (llms.Model, error) {
	switch provider {
	case "openai":
		opts := []openai.Option{}
		if apiKey != "" {
			opts = append(opts, openai.WithToken(apiKey))
		}
		if modelName != "" {
			opts = append(opts, openai.WithModel(modelName))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, types.WrapError(types.CONFIG_VALIDATION_FAILED, "could not build openai model", err)
		}
		return model, nil

	case "anthropic":
		opts := []anthropic.Option{}
		if apiKey != "" {
			opts = append(opts, anthropic.WithToken(apiKey))
		}
		if modelName != "" {
			opts = append(opts, anthropic.WithModel(modelName))
		}
		model, err := anthropic.New(opts...)
		if err != nil {
			return nil, types.WrapError(types.CONFIG_VALIDATION_FAILED, "could not build anthropic model", err)
		}
		return model, nil

	case "ollama":
		opts := []ollama.Option{}
		if modelName != "" {
			opts = append(opts, ollama.WithModel(modelName))
		}
		model, err := ollama.New(opts...)
		if err != nil {
			return nil, types.WrapError(types.CONFIG_VALIDATION_FAILED, "could not build ollama model", err)
		}
		return model, nil

	default:
		return nil, types.NewErrorf(types.CONFIG_VALIDATION_FAILED,
			"unknown generation provider %q", provider)
	}
}
