package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"claimdesk-backend/internal/analysis"
	"claimdesk-backend/internal/documents"
	"claimdesk-backend/internal/folders"
	"claimdesk-backend/internal/intake"
	"claimdesk-backend/internal/llm"
	"claimdesk-backend/internal/llm/gemini"
	"claimdesk-backend/internal/ocr"
	"claimdesk-backend/internal/qna"
	"claimdesk-backend/internal/reports"
	"claimdesk-backend/internal/shared/config"
	"claimdesk-backend/internal/shared/server"
	"claimdesk-backend/internal/shared/storage/db"
	"claimdesk-backend/internal/shared/storage/object"
	localstore "claimdesk-backend/internal/shared/storage/object/local"
	s3store "claimdesk-backend/internal/shared/storage/object/s3"
)

// App holds the wired dependency graph behind the HTTP surface.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	FolderRepo   folders.Repo
	DocumentRepo documents.Repo
	ReportRepo   reports.Repo
	QnARepo      qna.Repo

	FolderService   *folders.Service
	DocumentService *documents.Service
	ReportService   *reports.Service
	QnAService      *qna.Service
	IntakeService   *intake.Service
	Requestor       *analysis.Requestor
	Extractor       *ocr.Extractor
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		FolderHandler:   folders.NewHandler(app.FolderService),
		DocumentHandler: documents.NewHandler(app.DocumentService),
		IntakeHandler:   intake.NewHandler(app.IntakeService),
		ReportHandler:   reports.NewHandler(app.ReportService),
		QnAHandler:      qna.NewHandler(app.QnAService),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			log.Printf("bootstrap: GEMINI_API_KEY empty; oracle fallbacks will serve all analysis")
			return llm.PlaceholderClient{}, nil
		}
		return gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel)
	default:
		return llm.PlaceholderClient{}, nil
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.FolderRepo = &folders.PGRepo{DB: app.DB}
		app.DocumentRepo = &documents.PGRepo{DB: app.DB}
		app.ReportRepo = &reports.PGRepo{DB: app.DB}
		app.QnARepo = &qna.PGRepo{DB: app.DB}
	} else {
		app.FolderRepo = folders.NewMemoryRepo()
		app.DocumentRepo = documents.NewMemoryRepo()
		app.ReportRepo = reports.NewMemoryRepo()
		app.QnARepo = qna.NewMemoryRepo()
	}

	llmClient, err := buildLLM(app.Config)
	if err != nil {
		return err
	}
	app.Requestor = analysis.NewRequestor(llmClient)
	app.Extractor = ocr.NewExtractor(app.Config)

	app.FolderService = &folders.Service{
		Repo:  app.FolderRepo,
		Docs:  documents.FolderSource{Repo: app.DocumentRepo},
		Store: app.Store,
	}
	app.DocumentService = &documents.Service{
		Repo:    app.DocumentRepo,
		Store:   app.Store,
		Folders: app.FolderService,
	}
	app.ReportService = &reports.Service{
		Repo:      app.ReportRepo,
		Folders:   app.FolderRepo,
		Docs:      app.DocumentRepo,
		Requestor: app.Requestor,
	}
	app.QnAService = &qna.Service{
		Repo:      app.QnARepo,
		Folders:   app.FolderRepo,
		Docs:      app.DocumentRepo,
		Requestor: app.Requestor,
	}
	app.IntakeService = &intake.Service{
		Folders:   app.FolderRepo,
		FolderSvc: app.FolderService,
		Docs:      app.DocumentRepo,
		Store:     app.Store,
		Extractor: app.Extractor,
		Requestor: app.Requestor,
	}
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
