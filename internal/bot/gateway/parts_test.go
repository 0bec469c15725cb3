package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/reine-ishyanami/gemini-bot/internal/bot/model"
)

func TestBuildUserPartsTextOnly(t *testing.T) {
	parts := BuildUserParts("what is the weather", nil)

	require.Len(t, parts, 1)
	assert.Equal(t, "what is the weather", parts[0].Text)
	assert.Nil(t, parts[0].InlineData)
}

func TestBuildUserPartsWithImage(t *testing.T) {
	att := &model.Attachment{Data: []byte{0xff, 0xd8}, MIMEType: "image/jpeg"}
	parts := BuildUserParts("describe this", att)

	require.Len(t, parts, 2)
	assert.Equal(t, "describe this", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte{0xff, 0xd8}, parts[1].InlineData.Data)
}

func TestBuildUserPartsWithAudio(t *testing.T) {
	att := &model.Attachment{Data: []byte{0x49, 0x44, 0x33}, MIMEType: "audio/mp3"}
	parts := BuildUserParts("summarize this recording", att)

	require.Len(t, parts, 2)
	assert.Equal(t, "audio/mp3", parts[1].InlineData.MIMEType)
}

func TestBuildUserPartsEmptyAttachmentIgnored(t *testing.T) {
	parts := BuildUserParts("hello", &model.Attachment{})
	assert.Len(t, parts, 1)
}

func TestTurnRoles(t *testing.T) {
	user := UserTurn(BuildUserParts("hi", nil))
	assert.Equal(t, genai.RoleUser, user.Role)

	echo := ModelTurn("previous answer")
	assert.Equal(t, genai.RoleModel, echo.Role)
	require.Len(t, echo.Parts, 1)
	assert.Equal(t, "previous answer", echo.Parts[0].Text)

	cont := UserTextTurn("tell me more")
	assert.Equal(t, genai.RoleUser, cont.Role)
}

func TestFeatureOptions(t *testing.T) {
	cfg := model.GeminiConfig{
		Model:    "gemini-2.0-flash-exp",
		GenModel: "gemini-2.0-flash-exp-image-generation",
		Prompt:   "be helpful",
	}

	chat := ChatOptions(cfg)
	assert.Equal(t, cfg.Model, chat.Model)
	assert.Equal(t, "be helpful", chat.SystemInstruction)
	assert.Equal(t, []string{ModalityText}, chat.Modalities)
	assert.False(t, chat.Search)

	img := ImageOptions(cfg)
	assert.Equal(t, cfg.GenModel, img.Model)
	assert.Empty(t, img.SystemInstruction)
	assert.Equal(t, []string{ModalityText, ModalityImage}, img.Modalities)

	search := SearchOptions(cfg)
	assert.True(t, search.Search)
	assert.Equal(t, cfg.Model, search.Model)

	listen := ListenOptions(cfg)
	assert.False(t, listen.Search)
	assert.Equal(t, []string{ModalityText}, listen.Modalities)
}
