package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Env はドキュメント取得元の環境モード（local | production）
	Env string

	// Database設定
	Database DatabaseConfig

	// OpenAI設定（Embeddings + LLM）
	OpenAI OpenAIConfig

	// コーパス設定（config.yaml由来）
	Corpus CorpusConfig

	// HTTPPort はクエリエンドポイントの待受ポート
	HTTPPort int
}

// DatabaseConfig はベクトルストア（PostgreSQL + pgvector）接続設定
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// OpenAIConfig はOpenAI API設定
type OpenAIConfig struct {
	APIKey             string
	EmbeddingDimension int
}

// CorpusConfig はインジェスト対象とモデル選択の設定
// config.yaml から読み込まれます
type CorpusConfig struct {
	// DocumentDirectory はローカルモードのディレクトリまたはプロダクションモードのバケット名
	DocumentDirectory string `yaml:"document_directory"`
	// EmbeddingModel はEmbeddingモデル名。コレクション名も兼ねる
	EmbeddingModel string `yaml:"embedding_model"`
	// LLMModel は回答合成に使う言語モデル名
	LLMModel string `yaml:"llm_model"`
	// TopK は類似検索の件数
	TopK int `yaml:"top_k"`
}

// Load は環境変数（.env）と設定ファイル（config.yaml）から設定を読み込みます
func Load(envFilePath, yamlFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		Env: getEnv("ENV", ""),
		Database: DatabaseConfig{
			Driver:   getEnv("PGVECTOR_DRIVER", "pgx"),
			Host:     getEnv("PGVECTOR_HOST", "localhost"),
			Port:     getEnvAsInt("PGVECTOR_PORT", 5432),
			User:     getEnv("PGVECTOR_USER", "postgres"),
			Password: getEnv("PGVECTOR_PASSWORD", ""),
			DBName:   getEnv("PGVECTOR_DATABASE", "postgres"),
			SSLMode:  getEnv("PGVECTOR_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSION", 1536),
		},
		HTTPPort: getEnvAsInt("PORT", 3000),
	}

	if yamlFilePath != "" {
		corpus, err := loadCorpusConfig(yamlFilePath)
		if err != nil {
			return nil, err
		}
		cfg.Corpus = *corpus
	}

	if cfg.Corpus.EmbeddingModel == "" {
		cfg.Corpus.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.Corpus.LLMModel == "" {
		cfg.Corpus.LLMModel = "gpt-4o-mini"
	}

	return cfg, nil
}

// loadCorpusConfig は config.yaml を読み込みます
func loadCorpusConfig(path string) (*CorpusConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var corpus CorpusConfig
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &corpus, nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
