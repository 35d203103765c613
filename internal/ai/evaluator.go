// Package ai talks to an OpenAI-compatible chat API to produce advisory
// letter-grade evaluations of open-ended quiz answers. Evaluations are
// shown to the user next to the self-grading control and never change the
// score.
package ai

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/quizdeck/quizdeck/internal/ai/prompts"
	"github.com/quizdeck/quizdeck/internal/model"
)

//go:embed prompts/*.txt
var promptFS embed.FS

// Evaluator wraps an OpenAI-compatible API client.
type Evaluator struct {
	api     *openai.Client
	model   string
	variant prompts.PromptVariant
}

// New creates an evaluator client. baseURL may point at any
// OpenAI-compatible endpoint.
func New(baseURL, apiKey, modelName, variant string) (*Evaluator, error) {
	if !prompts.IsValidVariant(variant) {
		return nil, fmt.Errorf("invalid prompt variant: %s", variant)
	}
	if err := prompts.Load(promptFS); err != nil {
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Evaluator{
		api:     openai.NewClientWithConfig(config),
		model:   modelName,
		variant: prompts.PromptVariant(variant),
	}, nil
}

// Ping verifies the endpoint is reachable by listing its models.
func (e *Evaluator) Ping(ctx context.Context) error {
	if _, err := e.api.ListModels(ctx); err != nil {
		return fmt.Errorf("evaluator ping: %w", err)
	}
	return nil
}

// Evaluate asks the model for a letter grade and short feedback on one
// submitted answer.
func (e *Evaluator) Evaluate(ctx context.Context, question, reference, submitted string) (*model.AIEvaluation, error) {
	systemPrompt, err := prompts.BuildEvalPrompt(e.variant, prompts.EvalData{
		Question:  question,
		Reference: reference,
	})
	if err != nil {
		return nil, fmt.Errorf("build evaluation prompt: %w", err)
	}

	resp, err := e.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompts.SanitizeAnswer(submitted)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluator API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("evaluator returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("Evaluator response", "raw", raw)

	return parseEvaluation(raw)
}

// parseEvaluation decodes the model's JSON reply and validates the grade.
func parseEvaluation(raw string) (*model.AIEvaluation, error) {
	var result struct {
		Grade    string `json:"grade"`
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("parse evaluator response: %w (raw: %s)", err, raw)
	}

	grade := model.Grade(strings.ToUpper(strings.TrimSpace(result.Grade)))
	if !grade.Valid() {
		return nil, fmt.Errorf("evaluator returned unknown grade %q", result.Grade)
	}

	return &model.AIEvaluation{
		Grade:    grade,
		Feedback: strings.TrimSpace(result.Feedback),
	}, nil
}
