package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/cloo-solutions/yuholens/internal/anthropic"
	"github.com/cloo-solutions/yuholens/internal/config"
	"github.com/cloo-solutions/yuholens/internal/database"
	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/filing"
	"github.com/cloo-solutions/yuholens/internal/nlp"
	"github.com/cloo-solutions/yuholens/internal/openai"
	"github.com/cloo-solutions/yuholens/internal/pacing"
	"github.com/cloo-solutions/yuholens/internal/repository"
	"github.com/cloo-solutions/yuholens/internal/service"
	"github.com/cloo-solutions/yuholens/internal/storage"
	"github.com/cloo-solutions/yuholens/internal/telemetry"
	"github.com/cloo-solutions/yuholens/internal/universe"
	"github.com/jackc/pgx/v5/pgxpool"
	gopenai "github.com/sashabaranov/go-openai"
)

// App holds the dependencies shared by the commands. The database-backed fields are
// nil when no database is configured.
type App struct {
	Config   *config.Config
	Filings  *filing.Repository
	Records  *repository.RecordStore
	Pool     *pgxpool.Pool
	Stored   *repository.DistributionRepository
	Runs     *repository.RunRepository
	Embedded *repository.EmbeddingCacheRepository

	closers []func()
}

// Open loads the configuration and connects the storage backends.
func Open(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return OpenWithConfig(ctx, cfg)
}

// OpenWithConfig connects the storage backends described by cfg.
func OpenWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if cfg.HasSentry() {
		shutdown, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: cfg.TracesSampleRate(),
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			app.closers = append(app.closers, shutdown)
		}
	}

	var filings, records storage.Bucket
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			UsePathStyle:    true,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		filings, records = s3Client, s3Client.Sub("records")
	} else {
		filings, records = storage.NewDirBucket(cfg.DataDir), storage.NewDirBucket(cfg.RecordDir)
	}
	app.Filings = filing.NewRepository(filings)
	app.Records = repository.NewRecordStore(records)

	if cfg.HasDatabase() {
		pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Println("connected to database")
		app.closers = append(app.closers, pool.Close)
		app.Pool = pool
		app.Stored = repository.NewDistributionRepository(pool)
		app.Runs = repository.NewRunRepository(pool)
		app.Embedded = repository.NewEmbeddingCacheRepository(pool)
	}

	return app, nil
}

// Close releases what Open acquired, in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Catalog pairs filings over the configured year range.
func (a *App) Catalog() (*filing.Catalog, error) {
	return filing.NewCatalog(a.Filings, a.Config.FirstYear, a.Config.TargetYear)
}

// Universe loads the company universe.
func (a *App) Universe() (*universe.Universe, error) {
	return universe.Load(a.Config.UniversePath)
}

// CompanyRecords loads every universe company that has both filings for year.
func (a *App) CompanyRecords(ctx context.Context, year int) ([]*domain.CompanyRecord, error) {
	u, err := a.Universe()
	if err != nil {
		return nil, err
	}
	catalog, err := a.Catalog()
	if err != nil {
		return nil, err
	}
	records, err := catalog.Records(ctx, u.Codes, year)
	if err != nil {
		return nil, err
	}
	log.Printf("catalog: %s %d: %d of %d companies have both filings", u.Name, year, len(records), len(u.Codes))
	return records, nil
}

// Source reads stored distributions from the database when one is configured and
// from the record files otherwise.
func (a *App) Source() service.AttributeSource {
	if a.Stored != nil {
		return a.Stored
	}
	return a.Records
}

// Stores lists where collected distributions are written.
func (a *App) Stores() []service.AttributeStore {
	stores := []service.AttributeStore{a.Records}
	if a.Stored != nil {
		stores = append(stores, a.Stored)
	}
	return stores
}

// RunRecorder returns nil without a database.
func (a *App) RunRecorder() service.RunRecorder {
	if a.Runs == nil {
		return nil
	}
	return a.Runs
}

// NLPClient builds the language-service client for the configured provider.
func (a *App) NLPClient() (*nlp.Client, error) {
	cfg := a.Config
	if err := cfg.ValidateProvider(); err != nil {
		return nil, err
	}

	var embedder nlp.Embedder
	var openaiClient *openai.Client
	if cfg.HasOpenAI() {
		openaiCfg := openai.Config{
			APIKey:              cfg.OpenAIAPIKey,
			ChatModel:           cfg.OpenAIChatModel,
			EmbeddingModel:      gopenai.EmbeddingModel(cfg.OpenAIEmbeddingModel),
			EmbeddingDimensions: cfg.OpenAIEmbeddingDims,
		}
		if a.Embedded != nil {
			openaiCfg.Cache = a.Embedded
		}
		openaiClient = openai.NewClientWithConfig(openaiCfg)
		embedder = openaiClient
	}

	switch cfg.NLPProvider {
	case config.ProviderAnthropic:
		completer, err := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		if err != nil {
			return nil, err
		}
		return nlp.NewClient(completer, embedder), nil
	default:
		return nlp.NewClient(openaiClient, embedder), nil
	}
}

// Analysis builds a paced analysis service.
func (a *App) Analysis() (*service.AnalysisService, error) {
	client, err := a.NLPClient()
	if err != nil {
		return nil, err
	}
	return service.NewAnalysisService(client, pacing.New(a.Config.CallInterval))
}
