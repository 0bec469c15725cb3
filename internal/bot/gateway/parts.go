package gateway

import (
	"google.golang.org/genai"

	"github.com/reine-ishyanami/gemini-bot/internal/bot/model"
)

// BuildUserParts converts a prompt and optional attachment into the ordered
// content parts of one user turn: the text part first, then the attachment.
func BuildUserParts(prompt string, att *model.Attachment) []*genai.Part {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if att != nil && len(att.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(att.Data, att.MIMEType))
	}
	return parts
}

// UserTurn wraps parts into a single user-role conversation turn.
func UserTurn(parts []*genai.Part) *genai.Content {
	return genai.NewContentFromParts(parts, genai.RoleUser)
}

// ModelTurn wraps a text into a single model-role conversation turn.
func ModelTurn(text string) *genai.Content {
	return genai.NewContentFromText(text, genai.RoleModel)
}

// UserTextTurn wraps a text into a single user-role conversation turn.
func UserTextTurn(text string) *genai.Content {
	return genai.NewContentFromText(text, genai.RoleUser)
}
