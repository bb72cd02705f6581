package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobmatch/internal/config"
	"jobmatch/internal/db"
	"jobmatch/internal/encode"
	"jobmatch/internal/logger"
	"jobmatch/internal/match"
	"jobmatch/internal/store"
)

// application bundles the wired dependency graph. The encoder is constructed
// exactly once here and shared by reference with the indexer and matcher.
type application struct {
	cfg     *config.Config
	logger  *zap.Logger
	pool    *pgxpool.Pool
	rdb     *redis.Client // nil when REDIS_URL is unset
	jobs    *store.Jobs
	embs    *store.Embeddings
	encoder encode.Encoder
	indexer *match.Indexer
	matcher *match.Matcher
}

// newApplication wires config, logging and persistence. When withEncoder is
// true it also builds the encoder, indexer and matcher and runs the
// embedding store setup, which is fatal on failure.
func newApplication(ctx context.Context, withEncoder bool) (*application, error) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
	}

	a := &application{
		cfg:    cfg,
		logger: zlog,
		pool:   pool,
		rdb:    rdb,
		jobs:   store.NewJobs(pool),
		embs:   store.NewEmbeddings(pool),
	}

	if err := a.jobs.Setup(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if withEncoder {
		enc, err := encode.NewOpenAI(encode.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.EmbeddingModel,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.encoder = enc
		a.indexer = match.NewIndexer(enc, a.embs, zlog)
		a.matcher = match.NewMatcher(enc, a.embs, a.indexer, zlog)

		if err := a.embs.Setup(ctx, enc.Dimension()); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// Close releases connections.
func (a *application) Close() {
	if a.rdb != nil {
		a.rdb.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	_ = a.logger.Sync()
}
