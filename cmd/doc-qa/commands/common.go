package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/doc-qa/internal/core/corpus"
	"github.com/jinford/doc-qa/internal/core/ingestion"
	"github.com/jinford/doc-qa/internal/core/qa"
	"github.com/jinford/doc-qa/internal/infra/loader"
	"github.com/jinford/doc-qa/internal/infra/openai"
	"github.com/jinford/doc-qa/internal/infra/postgres"
	"github.com/jinford/doc-qa/internal/infra/source"
	"github.com/jinford/doc-qa/internal/infra/tokenizer"
	"github.com/jinford/doc-qa/internal/platform/logger"
	"github.com/jinford/doc-qa/pkg/config"
	"github.com/jinford/doc-qa/pkg/db"
)

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config   *config.Config
	Database *db.DB
	Registry *corpus.Registry
	Store    *postgres.CollectionRepository
	Embedder *openai.Embedder
	LLM      *openai.Client
	Logger   *slog.Logger
}

// NewAppContext は設定を読み込み、DBに接続して AppContext を作成する
func NewAppContext(ctx context.Context, envFile, configFile string) (*AppContext, error) {
	cfg, err := config.Load(envFile, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.New(logger.DefaultConfig())

	database, err := db.New(ctx, db.ConnectionParams{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vector store: %w", err)
	}

	embedder, err := openai.NewEmbedder(cfg.OpenAI.APIKey,
		openai.WithEmbeddingModel(cfg.Corpus.EmbeddingModel),
		openai.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
	)
	if err != nil {
		database.Close()
		return nil, err
	}

	llm, err := openai.NewClient(cfg.OpenAI.APIKey, cfg.Corpus.LLMModel)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &AppContext{
		Config:   cfg,
		Database: database,
		Registry: loader.DefaultRegistry(),
		Store:    postgres.NewCollectionRepository(database.Pool),
		Embedder: embedder,
		LLM:      llm,
		Logger:   appLogger,
	}, nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	if ac.Database != nil {
		ac.Database.Close()
	}
}

// NewIngestionService はインジェストオーケストレータを組み立てる
func (ac *AppContext) NewIngestionService(ctx context.Context) (*ingestion.Service, error) {
	provider, err := source.New(ctx, corpus.Mode(ac.Config.Env), ac.Config.Corpus.DocumentDirectory, ac.Registry)
	if err != nil {
		return nil, err
	}

	counter, err := tokenizer.NewTiktokenCounter()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token counter: %w", err)
	}

	chunker := ingestion.NewChunker(ingestion.DefaultChunkerConfig(), counter)
	return ingestion.NewService(
		provider,
		ac.Registry,
		chunker,
		ac.Embedder,
		ac.Store,
		ingestion.WithLogger(ac.Logger),
	), nil
}

// NewAnswerer は質問応答エンジンを計測ラッパー付きで組み立てる
func (ac *AppContext) NewAnswerer() qa.Answerer {
	svc := qa.NewService(
		ac.Store,
		ac.Embedder,
		ac.LLM,
		ac.Registry,
		ac.Config.Corpus.EmbeddingModel,
		qa.WithTopK(ac.Config.Corpus.TopK),
		qa.WithLogger(ac.Logger),
	)
	return qa.WithTiming(svc, ac.Logger)
}
