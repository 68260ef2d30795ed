package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/cache"
	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/events"
	"github.com/jonathan/interview-coach/internal/generation"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/logger"
	"github.com/jonathan/interview-coach/internal/repository"
)

// loadConfig reads defaults, the --config file and INTERVIEW_* env vars.
// The --debug and --json flags override the log section.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	if f := cmd.Flag("debug"); f != nil {
		if err := v.BindPFlag("log.debug", f); err != nil {
			return nil, fmt.Errorf("binding debug flag: %w", err)
		}
	}
	if f := cmd.Flag("json"); f != nil {
		if err := v.BindPFlag("log.json", f); err != nil {
			return nil, fmt.Errorf("binding json flag: %w", err)
		}
	}
	if err := config.ReadFile(v, cfgFile); err != nil {
		return nil, err
	}
	return config.Unmarshal(v)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// app holds the wired dependencies shared by the commands
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	client    llm.Client
	cascade   *generation.Cascade
	store     interview.Store
	publisher events.Publisher
	objects   *ingestion.ObjectSource
	manager   *interview.Manager

	closers []func(context.Context) error
}

// appOptions selects which optional backends buildApp connects
type appOptions struct {
	// persistent connects the configured store, cache and event broker;
	// otherwise sessions stay in memory
	persistent bool
	objects    bool
}

func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger, opts appOptions) (*app, error) {
	a := &app{cfg: cfg, log: log, publisher: events.Nop{}}

	if err := a.initGeneration(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	a.store = interview.NewMemoryStore()
	if opts.persistent {
		if err := a.initStore(ctx); err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		if err := a.initPublisher(); err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
	}

	if opts.objects {
		if objCfg, ok := cfg.ObjectConfig(); ok {
			src, err := ingestion.NewObjectSource(ctx, objCfg, log)
			if err != nil {
				_ = a.Close(ctx)
				return nil, err
			}
			a.objects = src
		}
	}

	a.manager = interview.NewManager(a.cascade, a.store, log, interview.WithPublisher(a.publisher))
	return a, nil
}

func (a *app) initGeneration(ctx context.Context) error {
	if a.cfg.Offline() {
		a.log.Warn("no model credentials configured, using static content only")
		a.cascade = generation.NewCascade(nil, a.cfg.CascadeOptions(), a.log)
		return nil
	}

	client, err := llm.NewClient(ctx, a.cfg.ModelConfig(), a.cfg.LLM.APIKey, a.log)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	a.client = llm.WithRateLimit(client, a.cfg.LLM.RequestsPerSecond, a.cfg.LLM.Burst)
	a.cascade = generation.NewCascade(a.client, a.cfg.CascadeOptions(), a.log)
	return nil
}

func (a *app) initStore(ctx context.Context) error {
	switch a.cfg.Store.Backend {
	case config.StorePostgres:
		database, err := db.Connect(ctx, a.cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(context.Context) error { database.Close(); return nil })
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		a.store = db.NewSessionStore(database)
	case config.StoreMongo:
		client, err := repository.Connect(ctx, a.cfg.Store.MongoURI)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(ctx context.Context) error { return disconnectMongo(ctx, client) })
		a.store = repository.NewSessionRepository(client, a.cfg.Store.MongoDatabase)
	}

	if a.cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		a.store = cache.NewSessionCache(rdb, a.store, a.cfg.Redis.TTL, a.log)
	}

	a.log.Info("session store ready",
		zap.String("backend", a.cfg.Store.Backend),
		zap.Bool("cached", a.cfg.Redis.Addr != ""),
	)
	return nil
}

func (a *app) initPublisher() error {
	if a.cfg.AMQP.URL == "" {
		return nil
	}
	pub, err := events.NewAMQPPublisher(a.cfg.AMQP.URL, a.cfg.AMQP.Exchange, a.log)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func(context.Context) error { return pub.Close() })
	a.publisher = pub
	return nil
}

func disconnectMongo(ctx context.Context, client *mongo.Client) error {
	return client.Disconnect(ctx)
}

// Close releases connections in reverse order of creation
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
