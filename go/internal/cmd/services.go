package main

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/mafia/go/internal/game/events"
	"github.com/mcdev12/mafia/go/internal/game/gateway"
	"github.com/mcdev12/mafia/go/internal/game/orchestrator"
	"github.com/mcdev12/mafia/go/internal/game/repository"
	"github.com/mcdev12/mafia/go/internal/game/timer"
	"github.com/mcdev12/mafia/go/internal/rooms"
	"github.com/mcdev12/mafia/go/internal/store"
	"github.com/mcdev12/mafia/go/internal/users"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Orchestrator *orchestrator.Orchestrator
	Handler      *gateway.Handler
	Timers       *timer.Service
	Publisher    events.Publisher
}

func setupPublisher(ctx context.Context, cfg Config) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		log.Info().Msg("NATS_URL not set, game events go to the log")
		return events.LogPublisher{}, nil
	}

	jsCfg := events.DefaultJetStreamConfig()
	jsCfg.URL = cfg.NATSURL
	jsCfg.StreamName = cfg.NATSStream
	jsCfg.SubjectPrefix = cfg.NATSSubjectPrefix
	pub, err := events.NewJetStreamPublisher(ctx, jsCfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("url", cfg.NATSURL).Str("stream", cfg.NATSStream).Msg("publishing game events to JetStream")
	return pub, nil
}

func setupServices(docs store.DocumentStore, publisher events.Publisher, cfg Config, gameCfg orchestrator.Config) *Services {
	// Wire up dependency injection chain
	// Document store → Repository layer → App layer → Orchestrator → HTTP handler

	gameRepo := repository.NewRepository(docs, cfg.StoreTimeout)
	roomRepo := rooms.NewRepository(docs, cfg.StoreTimeout)
	userApp := users.NewApp(users.NewRepository(docs, cfg.StoreTimeout))

	clock := clockwork.NewRealClock()
	timers := timer.NewService(clock, cfg.Workers*4)

	gameCfg.Workers = cfg.Workers
	orch := orchestrator.NewOrchestrator(
		gameRepo,
		roomRepo,
		userApp,
		timers,
		publisher,
		gameCfg,
		orchestrator.WithClock(clock),
	)

	return &Services{
		Orchestrator: orch,
		Handler:      gateway.NewHandler(orch),
		Timers:       timers,
		Publisher:    publisher,
	}
}
