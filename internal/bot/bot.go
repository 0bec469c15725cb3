package bot

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/reine-ishyanami/gemini-bot/internal/bot/conversation"
	"github.com/reine-ishyanami/gemini-bot/internal/bot/gateway"
	"github.com/reine-ishyanami/gemini-bot/internal/bot/model"
	"github.com/reine-ishyanami/gemini-bot/internal/quota"
	logx "github.com/reine-ishyanami/gemini-bot/pkg/logger"
)

// searchRenderWidth widens markdown rendering for search and audio results,
// which tend to be long-form.
const searchRenderWidth = 1000

// Config aggregates everything the handlers need beyond their collaborators.
type Config struct {
	Gemini       model.GeminiConfig
	Conversation model.ConversationConfig
	Superusers   []string
}

// Request is one dispatched command invocation.
type Request struct {
	UserID     string
	Prompt     string
	Attachment *model.Attachment
	AsText     bool
	Continue   bool
	Waiter     model.ReplyWaiter
}

// Bot dispatches the four features: chat (with optional continuation), image
// generation, search-augmented generation, and audio analysis. Quota gating
// happens here, before any generation call.
type Bot struct {
	gemini     model.GeminiConfig
	tracker    *quota.Tracker
	gen        model.Generator
	emitter    model.Emitter
	messenger  model.Messenger
	engine     *conversation.Engine
	superusers map[string]struct{}
}

func New(cfg Config, tracker *quota.Tracker, gen model.Generator, emitter model.Emitter, messenger model.Messenger) *Bot {
	superusers := make(map[string]struct{}, len(cfg.Superusers))
	for _, id := range cfg.Superusers {
		superusers[id] = struct{}{}
	}

	engine := conversation.NewEngine(gen, emitter, messenger, gateway.ChatOptions(cfg.Gemini), conversation.Config{
		MaxTurns:    cfg.Conversation.MaxTurns,
		WaitTimeout: time.Duration(cfg.Conversation.WaitTimeout) * time.Second,
		WaitRetries: cfg.Conversation.WaitRetries,
	})

	return &Bot{
		gemini:     cfg.Gemini,
		tracker:    tracker,
		gen:        gen,
		emitter:    emitter,
		messenger:  messenger,
		engine:     engine,
		superusers: superusers,
	}
}

// Chat runs text generation with optional multi-turn continuation. Chat is not
// quota-tracked.
func (b *Bot) Chat(ctx context.Context, req Request) error {
	return b.engine.Converse(ctx, conversation.Request{
		Prompt:     req.Prompt,
		Attachment: req.Attachment,
		AsText:     req.AsText,
		Continue:   req.Continue,
		Waiter:     req.Waiter,
	})
}

// Generate runs image generation, gated on the generation quota.
func (b *Bot) Generate(ctx context.Context, req Request) error {
	ok, err := b.gate(ctx, quota.FeatureGeneration, req.UserID, "image generation")
	if err != nil || !ok {
		return err
	}
	return b.generateAndEmit(ctx, req, gateway.ImageOptions(b.gemini), model.EmitOptions{AsText: req.AsText})
}

// Search runs text generation augmented with Google Search, gated on the
// search quota.
func (b *Bot) Search(ctx context.Context, req Request) error {
	ok, err := b.gate(ctx, quota.FeatureSearch, req.UserID, "search")
	if err != nil || !ok {
		return err
	}
	return b.generateAndEmit(ctx, req, gateway.SearchOptions(b.gemini), model.EmitOptions{AsText: req.AsText, Width: searchRenderWidth})
}

// Listen analyses an audio attachment, gated on the audio quota.
func (b *Bot) Listen(ctx context.Context, req Request) error {
	ok, err := b.gate(ctx, quota.FeatureAudioListen, req.UserID, "audio analysis")
	if err != nil || !ok {
		return err
	}
	return b.generateAndEmit(ctx, req, gateway.ListenOptions(b.gemini), model.EmitOptions{AsText: req.AsText, Width: searchRenderWidth})
}

// gate consumes one quota unit for the user and reports the decision to them.
// A denial or a persistence failure stops the request before any generation.
func (b *Bot) gate(ctx context.Context, feature quota.Feature, userID, label string) (bool, error) {
	_, privileged := b.superusers[userID]
	decision, err := b.tracker.CheckAndConsume(ctx, feature, userID, privileged)
	if err != nil {
		b.notify(ctx, "quota bookkeeping failed, please try again later")
		return false, err
	}
	if !decision.Allowed {
		b.notify(ctx, fmt.Sprintf("%s limit reached for today", label))
		return false, nil
	}
	if !decision.Unlimited {
		b.notify(ctx, fmt.Sprintf("%s uses remaining today: %d", label, decision.Remaining))
	}
	return true, nil
}

// generateAndEmit is the shared single-exchange path of the gated features.
// Generation failures are rendered to the user as a diagnostic artifact.
func (b *Bot) generateAndEmit(ctx context.Context, req Request, genOpts model.GenerateOptions, emitOpts model.EmitOptions) error {
	history := []*genai.Content{
		gateway.UserTurn(gateway.BuildUserParts(req.Prompt, req.Attachment)),
	}
	parts, err := b.gen.Generate(ctx, history, genOpts)
	if err != nil {
		if eerr := b.emitter.EmitError(ctx, err); eerr != nil {
			logx.Error().Err(eerr).Msg("failed to report generation failure")
		}
		return err
	}
	if _, err := b.emitter.Emit(ctx, parts, emitOpts); err != nil {
		return fmt.Errorf("emit response: %w", err)
	}
	return nil
}

func (b *Bot) notify(ctx context.Context, text string) {
	if _, err := b.messenger.SendText(ctx, text); err != nil {
		logx.Error().Err(err).Msg("failed to send notice")
	}
}
