package gateway

import (
	"github.com/reine-ishyanami/gemini-bot/internal/bot/model"
)

const (
	ModalityText  = "TEXT"
	ModalityImage = "IMAGE"
)

// ChatOptions configures plain text generation with the system prompt.
func ChatOptions(cfg model.GeminiConfig) model.GenerateOptions {
	return model.GenerateOptions{
		Model:             cfg.Model,
		SystemInstruction: cfg.Prompt,
		Modalities:        []string{ModalityText},
	}
}

// ImageOptions configures image generation: the dedicated image model with
// both text and image output and no system instruction.
func ImageOptions(cfg model.GeminiConfig) model.GenerateOptions {
	return model.GenerateOptions{
		Model:      cfg.GenModel,
		Modalities: []string{ModalityText, ModalityImage},
	}
}

// SearchOptions configures text generation augmented with Google Search.
func SearchOptions(cfg model.GeminiConfig) model.GenerateOptions {
	opts := ChatOptions(cfg)
	opts.Search = true
	return opts
}

// ListenOptions configures audio analysis; the audio arrives as an inline
// part of the user turn, so the generation options match plain chat.
func ListenOptions(cfg model.GeminiConfig) model.GenerateOptions {
	return ChatOptions(cfg)
}
