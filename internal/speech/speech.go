// Package speech wraps an OpenAI-compatible speech synthesis endpoint.
// Synthesis is on-demand: nothing is cached, every playback request hits
// the API again.
package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultVoice is used when a request does not name a voice.
const DefaultVoice = string(openai.VoiceAlloy)

// Client wraps an OpenAI-compatible speech API client.
type Client struct {
	api   *openai.Client
	model openai.SpeechModel
}

// New creates a synthesis client. baseURL may point at any
// OpenAI-compatible endpoint.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: openai.SpeechModel(modelName),
	}
}

// Synthesize renders text to MP3 audio with the given voice. Cancelling
// ctx aborts the request; the caller owns cancellation via the playback
// controller.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = DefaultVoice
	}

	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          c.model,
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("speech API call: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	return data, nil
}
