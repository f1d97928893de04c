// Package bot wires the price-quoting conversation: configuration, session
// manager, pricing engine, rate source, order lookup, and the Telegram
// routes that tie them together.
package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	corecmd "github.com/oleglapko/poizon-2/core/cmd"
	"github.com/oleglapko/poizon-2/core/database"
	"github.com/oleglapko/poizon-2/core/logger"
	coretelegram "github.com/oleglapko/poizon-2/core/telegram"
	"github.com/oleglapko/poizon-2/core/telegram/commands"
	"github.com/oleglapko/poizon-2/core/telegram/router"
	"github.com/oleglapko/poizon-2/core/telegram/state"
	"github.com/oleglapko/poizon-2/healthz"
	"github.com/oleglapko/poizon-2/orders"
	"github.com/oleglapko/poizon-2/pricing"
	"github.com/oleglapko/poizon-2/rates"
	"log/slog"
)

type App struct {
	cfg      *Config
	sessions state.Manager

	engine     *pricing.Engine
	rateSource rates.Source
	lookup     *orders.Service

	health *healthz.Server
	db     *sqlx.DB
}

// New builds the application from a loaded configuration.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config")
	}
	if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
		return nil, fmt.Errorf("bot: logger init: %w", err)
	}

	a := &App{
		cfg:        cfg,
		sessions:   state.NewMemoryManager(),
		engine:     pricing.NewEngine(cfg.Pricing),
		rateSource: rates.NewFallback(rates.NewClient(cfg.Rates.Config), cfg.Rates.FallbackRate),
	}

	store, err := a.buildRecordStore()
	if err != nil {
		return nil, err
	}
	a.lookup = orders.NewService(store)

	if cfg.Health.Enabled {
		a.health = healthz.New(cfg.Health)
	}

	a.registerStateHandlers()
	return a, nil
}

func (a *App) buildRecordStore() (orders.RecordStore, error) {
	switch a.cfg.Orders.Backend {
	case BackendPostgres:
		db, err := database.Connect(context.Background(), a.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("bot: orders backend: %w", err)
		}
		if err := database.RunMigrations(a.cfg.Database); err != nil {
			return nil, fmt.Errorf("bot: orders backend: %w", err)
		}
		a.db = db
		return orders.NewPGStore(db), nil
	default:
		store, err := orders.NewSheetStore(a.cfg.Orders.Sheet)
		if err != nil {
			// A missing sheet URL degrades tracking to always-not-found
			// instead of refusing to start; quoting keeps working.
			logger.Warn(logger.Background(), "orders", "store.unconfigured")
			return nil, nil
		}
		return store, nil
	}
}

func (a *App) registerStateHandlers() {
	a.sessions.RegisterHandler(state.StateAwaitingCategory, a.handleCategory)
	a.sessions.RegisterHandler(state.StateAwaitingPrice, a.handlePrice)
	a.sessions.RegisterHandler(state.StateAwaitingDelivery, a.handleDelivery)
	a.sessions.RegisterHandler(state.StateAwaitingTracking, a.handleTracking)
}

func (a *App) buildRegistry() *coretelegram.Registry {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Начать расчёт стоимости",
	})
	reg.RegisterCommand("/rate", commands.Command{
		Handler:     a.handleRate,
		Description: "Текущий курс юаня",
		AdminOnly:   true,
		Hidden:      true,
	})

	reg.RegisterLabel(LabelRestart, a.handleStart)
	reg.RegisterLabel(LabelTracking, a.handleTrackOrder)

	reg.SetTextFallback(a.handleUnknown)
	return reg
}

// TelegramRunOptions assembles the run options consumed by the shared
// runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := a.buildRegistry()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.sessions, reg, router.TextOptions{})...)

	opts := coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig()),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ coretelegram.Runtime) error {
			if a.health != nil {
				a.health.Start(ctx)
			}
			return nil
		},
		OnStop: func(ctx context.Context, _ coretelegram.Runtime) error {
			if a.health != nil {
				if err := a.health.Shutdown(ctx); err != nil {
					logger.Warn(ctx, "health", "health.shutdown",
						slog.String("err", err.Error()))
				}
			}
			if a.db != nil {
				if err := a.db.Close(); err != nil {
					logger.Warn(ctx, "db", "db.close",
						slog.String("err", err.Error()))
				}
			}
			return nil
		},
	}
	return opts, nil
}

var _ corecmd.TelegramApp = (*App)(nil)
