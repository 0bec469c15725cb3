package model

// ================ Config ================

// GeminiConfig selects the models and system prompt for the generation backend.
type GeminiConfig struct {
	APIKey   string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL  string `envconfig:"GEMINI_BASE_URL"`
	Model    string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash-exp"`
	GenModel string `envconfig:"GEMINI_GEN_MODEL" default:"gemini-2.0-flash-exp-image-generation"`
	Prompt   string `envconfig:"GEMINI_PROMPT"`
}

// QuotaConfig carries the per-feature daily ceilings. A negative count
// disables quota enforcement for that feature. Superusers bypass quotas
// entirely and are never counted.
type QuotaConfig struct {
	SearchMaxCount int      `envconfig:"GEMINI_SEARCH_MAX_COUNT" default:"3"`
	GenMaxCount    int      `envconfig:"GEMINI_GEN_MAX_COUNT" default:"3"`
	AudioMaxCount  int      `envconfig:"GEMINI_AUDIO_MAX_COUNT" default:"3"`
	ResetHour      int      `envconfig:"QUOTA_RESET_HOUR" default:"0"`
	Superusers     []string `envconfig:"SUPERUSERS"`
}

// ConversationConfig bounds the continuation window of the chat feature.
type ConversationConfig struct {
	MaxTurns    int `envconfig:"CONVERSATION_MAX_TURNS" default:"7"`
	WaitTimeout int `envconfig:"CONVERSATION_WAIT_TIMEOUT" default:"120"`
	WaitRetries int `envconfig:"CONVERSATION_WAIT_RETRIES" default:"5"`
}

// StorageConfig selects the durable quota storage backend.
type StorageConfig struct {
	Backend string `envconfig:"STORAGE_BACKEND" default:"file"`
	Dir     string `envconfig:"STORAGE_DIR" default:"data"`
}
