package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/reine-ishyanami/gemini-bot/internal/bot/gateway"
	"github.com/reine-ishyanami/gemini-bot/internal/bot/model"
	logx "github.com/reine-ishyanami/gemini-bot/pkg/logger"
)

const (
	DefaultMaxTurns    = 7
	DefaultWaitTimeout = 120 * time.Second
	DefaultWaitRetries = 5
)

const (
	noticeWindowOpen = "reply to the response message to keep the conversation going, up to %d rounds"
	noticeEnded      = "conversation ended"
	noticeTimedOut   = "input timed out, conversation ended"
)

// Config bounds the continuation window.
type Config struct {
	MaxTurns    int
	WaitTimeout time.Duration
	WaitRetries int
}

func (c Config) withDefaults() Config {
	if c.MaxTurns <= 0 {
		c.MaxTurns = DefaultMaxTurns
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
	if c.WaitRetries <= 0 {
		c.WaitRetries = DefaultWaitRetries
	}
	return c
}

// Request is one chat invocation handed to the engine.
type Request struct {
	Prompt     string
	Attachment *model.Attachment
	AsText     bool
	Continue   bool
	Waiter     model.ReplyWaiter
}

// Engine orchestrates repeated chat exchanges, each anchored to the platform
// message id of the previous model reply, until a terminal condition: turn cap,
// timeout, retry exhaustion, explicit stop, or generation failure.
type Engine struct {
	gen       model.Generator
	emitter   model.Emitter
	messenger model.Messenger
	chatOpts  model.GenerateOptions
	cfg       Config
}

func NewEngine(gen model.Generator, emitter model.Emitter, messenger model.Messenger, chatOpts model.GenerateOptions, cfg Config) *Engine {
	return &Engine{
		gen:       gen,
		emitter:   emitter,
		messenger: messenger,
		chatOpts:  chatOpts,
		cfg:       cfg.withDefaults(),
	}
}

// Converse runs the first exchange and, when continuation is requested, the
// bounded continuation window. Failures before a session exists abort without
// creating one; in-loop failures terminate the session. Both are surfaced to
// the user as a rendered diagnostic artifact.
func (e *Engine) Converse(ctx context.Context, req Request) error {
	history := []*genai.Content{
		gateway.UserTurn(gateway.BuildUserParts(req.Prompt, req.Attachment)),
	}

	em, err := e.exchange(ctx, history, req.AsText)
	if err != nil {
		e.reportFailure(ctx, err)
		return err
	}

	if !req.Continue {
		return nil
	}

	e.notify(ctx, fmt.Sprintf(noticeWindowOpen, e.cfg.MaxTurns))

	sess := NewSession(history, em.LastMessageID, em.LastText, e.cfg.MaxTurns, req.AsText)
	return e.loop(ctx, req.Waiter, sess)
}

// exchange performs one generate-and-emit round over the full history.
func (e *Engine) exchange(ctx context.Context, history []*genai.Content, asText bool) (model.Emission, error) {
	parts, err := e.gen.Generate(ctx, history, e.chatOpts)
	if err != nil {
		return model.Emission{}, err
	}
	return e.emitter.Emit(ctx, parts, model.EmitOptions{AsText: asText})
}

func (e *Engine) loop(ctx context.Context, waiter model.ReplyWaiter, sess *Session) error {
	for sess.State != StateTerminated {
		if sess.Exhausted() {
			sess.Terminate()
			e.notify(ctx, noticeEnded)
			return nil
		}

		text, outcome := e.await(ctx, waiter, sess)
		switch outcome {
		case waitTimedOut:
			sess.Terminate()
			e.notify(ctx, noticeTimedOut)
		case waitStopped:
			sess.Terminate()
			e.notify(ctx, noticeEnded)
		case waitMatched:
			sess.AppendExchange(text)
			em, err := e.exchange(ctx, sess.History, sess.AsText)
			if err != nil {
				sess.Terminate()
				e.reportFailure(ctx, err)
				return err
			}
			sess.Advance(em.LastText, em.LastMessageID)
		}
	}
	return nil
}

type waitOutcome uint8

const (
	waitMatched waitOutcome = iota
	waitStopped
	waitTimedOut
)

// await runs one waiting period: up to WaitRetries attempts, each re-arming
// the full timeout. Mismatched or empty inputs are discarded and consume one
// attempt; exhausting the budget without a match is a stop signal.
func (e *Engine) await(ctx context.Context, waiter model.ReplyWaiter, sess *Session) (string, waitOutcome) {
	for attempt := 0; attempt < e.cfg.WaitRetries; attempt++ {
		msg, err := waiter.Wait(ctx, e.cfg.WaitTimeout)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrNoReply):
				logx.Info().Int("attempt", attempt+1).Msg("receive empty reply, retrying")
				continue
			case errors.Is(err, model.ErrWaitTimeout) || errors.Is(err, context.DeadlineExceeded):
				logx.Info().Str("state", sess.State.String()).Msg("wait timed out, stop conversation")
				return "", waitTimedOut
			default:
				logx.Info().Err(err).Msg("wait stopped, stop conversation")
				return "", waitStopped
			}
		}

		switch sess.Classify(msg) {
		case EventMismatched:
			logx.Info().Str("anchor", sess.Anchor).Str("replyTo", msg.ReplyTo).Msg("receive unexpected reply, discarding")
		case EventBlank:
			logx.Debug().Str("anchor", sess.Anchor).Msg("receive blank reply, discarding")
		case EventMatched:
			return msg.Text, waitMatched
		}
	}

	logx.Info().Int("retries", e.cfg.WaitRetries).Msg("retry budget exhausted without matching reply")
	return "", waitStopped
}

func (e *Engine) notify(ctx context.Context, text string) {
	if _, err := e.messenger.SendText(ctx, text); err != nil {
		logx.Error().Err(err).Msg("failed to send conversation notice")
	}
}

func (e *Engine) reportFailure(ctx context.Context, cause error) {
	if err := e.emitter.EmitError(ctx, cause); err != nil {
		logx.Error().Err(err).Msg("failed to report generation failure")
	}
}
