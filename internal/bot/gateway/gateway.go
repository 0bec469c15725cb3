package gateway

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/reine-ishyanami/gemini-bot/internal/bot/model"
	errx "github.com/reine-ishyanami/gemini-bot/internal/core/error"
	logx "github.com/reine-ishyanami/gemini-bot/pkg/logger"
)

// Gateway invokes the Gemini API and converts responses into ordered output parts.
type Gateway struct {
	client *genai.Client
}

// New creates the Gemini client from configuration.
func New(ctx context.Context, cfg model.GeminiConfig) (*Gateway, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	return &Gateway{client: client}, nil
}

// Generate runs one generation call over the full history and returns the
// response parts in order. No partial output is reported on failure.
func (g *Gateway) Generate(ctx context.Context, history []*genai.Content, opts model.GenerateOptions) ([]model.OutputPart, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: opts.Modalities,
		SafetySettings:     safetySettingsOff(),
	}
	if opts.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(opts.SystemInstruction, genai.RoleUser)
	}
	if opts.Search {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, opts.Model, history, config)
	if err != nil {
		logx.Error().Err(err).Str("model", opts.Model).Msg("generation call failed")
		return nil, errx.WrapGemini(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errx.WrapGemini(errors.New("response contains no candidates"))
	}

	raw := resp.Candidates[0].Content.Parts
	parts := make([]model.OutputPart, 0, len(raw))
	for _, p := range raw {
		if p == nil {
			continue
		}
		if p.Text != "" {
			parts = append(parts, model.OutputPart{Text: p.Text})
		}
		if p.InlineData != nil {
			parts = append(parts, model.OutputPart{
				Data:     p.InlineData.Data,
				MIMEType: p.InlineData.MIMEType,
			})
		}
	}
	return parts, nil
}

// safetySettingsOff disables blocking across all harm categories, matching the
// deployment policy of the bot.
func safetySettingsOff() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
		genai.HarmCategoryCivicIntegrity,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdOff,
		})
	}
	return settings
}

var _ model.Generator = (*Gateway)(nil)
