package cli

import (
	"context"
	"fmt"

	"computerx_chatbot/internal/config"
	"computerx_chatbot/internal/conversation"
	"computerx_chatbot/internal/core"
	"computerx_chatbot/internal/knowledge"
	"computerx_chatbot/internal/nodes"
	"computerx_chatbot/internal/services"
	"computerx_chatbot/internal/storage"
)

// App wires the knowledge store, router and conversation service together
type App struct {
	Config        *config.Config
	Store         *knowledge.Store
	Catalog       *services.ProductService
	Router        *core.Router
	Conversations *conversation.Service

	repo storage.Storage[conversation.Record]
}

// NewApp loads the knowledge sources and builds every component. Loading finishes
// before NewApp returns, so the first turn sees the whole catalog.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store := knowledge.NewStore(
		knowledge.WithLearnedLog(cfg.Data.LearnedPath),
		knowledge.WithDelimiter(cfg.Data.LearnedDelimiter),
	)
	store.LoadAll(ctx, knowledge.Paths{
		Catalog:     cfg.Data.CatalogPath,
		SmallTalk:   cfg.Data.SmallTalkPath,
		Learned:     cfg.Data.LearnedPath,
		LearnedSeed: cfg.Data.LearnedSeedPath,
	})

	catalog := services.NewProductService(store)

	router, err := nodes.NewDefaultRouter(nodes.Dependencies{
		Persona:   nodes.Persona{Name: cfg.Bot.Name, Company: cfg.Bot.Company},
		Catalog:   catalog,
		Knowledge: store,
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	repo, err := storage.Open[conversation.Record](ctx, cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	probability := cfg.Bot.PersonalizeProbability
	if probability == 0 {
		probability = conversation.NeverPersonalize
	}
	svc := conversation.NewService(repo, router, store, conversation.ServiceConfig{
		BotName:                cfg.Bot.Name,
		HistoryTurns:           cfg.Session.HistoryTurns,
		PersonalizeProbability: probability,
	})

	return &App{
		Config:        cfg,
		Store:         store,
		Catalog:       catalog,
		Router:        router,
		Conversations: svc,
		repo:          repo,
	}, nil
}

// Close releases the session storage
func (a *App) Close() error {
	return a.repo.Close()
}
