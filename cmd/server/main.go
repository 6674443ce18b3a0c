package main

import (
	"context"
	"log"
	"strings"

	"github.com/Be1newinner/ship-chatbot/internal/ai"
	"github.com/Be1newinner/ship-chatbot/internal/chat"
	"github.com/Be1newinner/ship-chatbot/internal/config"
	"github.com/Be1newinner/ship-chatbot/internal/db"
	"github.com/Be1newinner/ship-chatbot/internal/httpapi"
	"github.com/Be1newinner/ship-chatbot/internal/httpapi/handlers"
	"github.com/Be1newinner/ship-chatbot/internal/store/rabbitmq"
	"github.com/Be1newinner/ship-chatbot/internal/store/redisstore"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	reg := ai.NewRegistry()
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})
	reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OpenRouterModel
		}
		return ai.NewOpenRouterProvider(
			cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, m,
			cfg.OpenRouterSiteURL, cfg.OpenRouterAppName,
		), nil
	})

	var cache *redisstore.Store
	if c := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionCacheTTL); c.Ping(context.Background()) != nil {
		log.Printf("redis unavailable, session cache disabled")
		_ = c.Close()
	} else {
		cache = c
		defer cache.Close()
	}

	var events *rabbitmq.Publisher
	if p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue); err != nil {
		log.Printf("rabbit unavailable, activity events disabled: %v", err)
	} else {
		events = p
		defer events.Close()
	}

	svcCfg := chat.ServiceConfig{
		Provider:          cfg.AIProvider,
		Model:             cfg.AIModel,
		SystemInstruction: cfg.SystemInstruction,
		ContextTurns:      cfg.ContextTurns,
		GenerateTimeout:   cfg.GenerateTimeout,
	}
	if cache != nil {
		svcCfg.Cache = cache
	}
	if events != nil {
		svcCfg.Activity = events
	}
	svc := chat.NewService(chat.NewRepo(gdb), reg, svcCfg)

	var activityPub handlers.ActivityPublisher
	if events != nil {
		activityPub = events
	}

	r := httpapi.NewRouter(gdb, cfg, svc, activityPub)

	log.Printf("server listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
