package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/leadgenius/prospect-cli/internal/controller"
	"github.com/leadgenius/prospect-cli/internal/outreach"
	"github.com/leadgenius/prospect-cli/internal/prospect"
	"github.com/leadgenius/prospect-cli/internal/store"
	"github.com/leadgenius/prospect-cli/pkg/anthropic"
	"github.com/leadgenius/prospect-cli/pkg/gemini"
)

// initStore opens the configured store backend and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initGemini builds the Gemini client from config.
func initGemini() gemini.Client {
	return gemini.NewClient(cfg.Gemini.Key,
		gemini.WithBaseURL(cfg.Gemini.BaseURL),
		gemini.WithModel(cfg.Gemini.Model),
		gemini.WithRateLimit(cfg.Gemini.RateLimit),
	)
}

// initOutreach builds the outreach client on the configured provider.
// Prospecting always uses Gemini (it needs grounding and a response schema);
// outreach is plain text and can run on either provider.
func initOutreach(g gemini.Client) (*outreach.Client, error) {
	switch cfg.Outreach.Provider {
	case "anthropic":
		return outreach.New(&outreach.AnthropicGenerator{
			Client:    anthropic.NewClient(cfg.Anthropic.Key),
			Model:     cfg.Anthropic.Model,
			MaxTokens: int64(cfg.Outreach.MaxTokens),
		}), nil
	case "gemini", "":
		return outreach.New(&outreach.GeminiGenerator{
			Client: g,
			Model:  cfg.Gemini.Model,
		}), nil
	default:
		return nil, eris.Errorf("unknown outreach provider %q", cfg.Outreach.Provider)
	}
}

// initController wires the two clients into a fresh controller.
func initController() (*controller.Controller, error) {
	g := initGemini()
	out, err := initOutreach(g)
	if err != nil {
		return nil, err
	}
	return controller.New(prospect.New(g), out), nil
}
