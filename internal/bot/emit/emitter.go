package emit

import (
	"context"
	"fmt"

	"github.com/reine-ishyanami/gemini-bot/internal/bot/model"
	logx "github.com/reine-ishyanami/gemini-bot/pkg/logger"
)

const renderedImageMIME = "image/png"

// Emitter delivers generation output to the user. Text parts go out verbatim
// or as rendered markdown images depending on the per-invocation flag; inline
// binary parts always go out as images.
type Emitter struct {
	messenger model.Messenger
	renderer  model.Renderer
}

func New(messenger model.Messenger, renderer model.Renderer) *Emitter {
	return &Emitter{messenger: messenger, renderer: renderer}
}

func (e *Emitter) Emit(ctx context.Context, parts []model.OutputPart, opts model.EmitOptions) (model.Emission, error) {
	var em model.Emission
	for _, p := range parts {
		if p.Inline() {
			id, err := e.messenger.SendImage(ctx, p.Data, p.MIMEType)
			if err != nil {
				return em, fmt.Errorf("send inline part: %w", err)
			}
			em.LastMessageID = id
			continue
		}
		if p.Text == "" {
			continue
		}

		var (
			id  string
			err error
		)
		if opts.AsText {
			id, err = e.messenger.SendText(ctx, p.Text)
		} else {
			var img []byte
			img, err = e.renderer.MarkdownToImage(ctx, p.Text, opts.Width)
			if err != nil {
				return em, fmt.Errorf("render markdown part: %w", err)
			}
			id, err = e.messenger.SendImage(ctx, img, renderedImageMIME)
		}
		if err != nil {
			return em, fmt.Errorf("send text part: %w", err)
		}
		em.LastMessageID = id
		em.LastText = p.Text
	}
	return em, nil
}

// EmitError renders the failure as a plain-text image and sends it. When even
// the renderer fails, the raw error text is sent instead so the failure is
// never silently swallowed.
func (e *Emitter) EmitError(ctx context.Context, cause error) error {
	img, err := e.renderer.TextToImage(ctx, cause.Error())
	if err != nil {
		logx.Error().Err(err).Msg("failed to render diagnostic artifact")
		if _, serr := e.messenger.SendText(ctx, cause.Error()); serr != nil {
			return fmt.Errorf("send diagnostic text: %w", serr)
		}
		return nil
	}
	if _, err := e.messenger.SendImage(ctx, img, renderedImageMIME); err != nil {
		return fmt.Errorf("send diagnostic image: %w", err)
	}
	return nil
}

var _ model.Emitter = (*Emitter)(nil)
