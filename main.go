package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/reine-ishyanami/gemini-bot/internal/bot"
	"github.com/reine-ishyanami/gemini-bot/internal/bot/emit"
	"github.com/reine-ishyanami/gemini-bot/internal/bot/gateway"
	"github.com/reine-ishyanami/gemini-bot/internal/bot/model"
	"github.com/reine-ishyanami/gemini-bot/internal/core"
	"github.com/reine-ishyanami/gemini-bot/internal/quota"
	"github.com/reine-ishyanami/gemini-bot/internal/storage"
	logx "github.com/reine-ishyanami/gemini-bot/pkg/logger"
	pkgredis "github.com/reine-ishyanami/gemini-bot/pkg/redis"
)

// AppConfig defines all configurable parameters for the bot, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis   pkgredis.Config
	Storage model.StorageConfig

	// LLM provider and features
	Gemini       model.GeminiConfig
	Quota        model.QuotaConfig
	Conversation model.ConversationConfig
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	var store storage.Store
	if cfg.Storage.Backend == "redis" {
		rdb, err := cfg.Redis.New()
		if err != nil {
			log.Fatalf("Failed to initialise Redis client: %v", err)
		}
		defer rdb.Close()
		store = storage.NewRedisStore(rdb, "gemini-bot")
	} else {
		store = storage.NewFileStore(cfg.Storage.Dir)
	}

	tracker := quota.NewTracker(store, map[quota.Feature]int{
		quota.FeatureSearch:      cfg.Quota.SearchMaxCount,
		quota.FeatureGeneration:  cfg.Quota.GenMaxCount,
		quota.FeatureAudioListen: cfg.Quota.AudioMaxCount,
	})
	if err := tracker.Load(ctx); err != nil {
		log.Fatalf("Failed to load quota counts: %v", err)
	}
	go quota.NewResetScheduler(tracker, cfg.Quota.ResetHour).Run(ctx)

	gw, err := gateway.New(ctx, cfg.Gemini)
	if err != nil {
		log.Fatalf("Failed to create generation gateway: %v", err)
	}

	cons := newConsole()
	b := bot.New(bot.Config{
		Gemini:       cfg.Gemini,
		Conversation: cfg.Conversation,
		Superusers:   cfg.Quota.Superusers,
	}, tracker, gw, emit.New(cons, cons), cons)

	runCommandLoop(ctx, b, cons)
}

// runCommandLoop drives the bot from the console: chat/gen/search/listen with
// -t (reply as text) and -c (continue).
func runCommandLoop(ctx context.Context, b *bot.Bot, cons *console) {
	fmt.Println("commands: chat [-t] [-c] <text> | gen [-t] <text> | search [-t] <text> | listen [-t] <text> | quit")

	for {
		fmt.Print("> ")
		line, ok := cons.ReadLine(ctx)
		if !ok {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		req := bot.Request{UserID: "console", Waiter: cons}
		for len(args) > 0 && strings.HasPrefix(args[0], "-") {
			switch args[0] {
			case "-t", "--text":
				req.AsText = true
			case "-c", "--conversation":
				req.Continue = true
			}
			args = args[1:]
		}
		req.Prompt = strings.Join(args, " ")

		var err error
		switch cmd {
		case "chat":
			err = b.Chat(ctx, req)
		case "gen":
			err = b.Generate(ctx, req)
		case "search":
			err = b.Search(ctx, req)
		case "listen":
			// The console cannot attach audio; the prompt goes out alone.
			err = b.Listen(ctx, req)
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q\n", cmd)
			continue
		}
		if err != nil {
			logx.Error().Err(err).Str("command", cmd).Msg("command failed")
		}
	}
}
