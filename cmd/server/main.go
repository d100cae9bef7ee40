// Command server runs the member portal HTTP API.
//
//	@title                       PDPI Member Portal API
//	@version                     1.0
//	@description                 Auth, content and navigation API of the member portal.
//	@BasePath                    /api/v1
//	@securityDefinitions.apikey  BearerAuth
//	@in                          header
//	@name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/pdpi/member-portal/docs"
	"github.com/pdpi/member-portal/internal/api"
	"github.com/pdpi/member-portal/internal/core/ports"
	"github.com/pdpi/member-portal/internal/core/service"
	"github.com/pdpi/member-portal/internal/infrastructure/config"
	"github.com/pdpi/member-portal/internal/infrastructure/db/memory"
	mongodb "github.com/pdpi/member-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/pdpi/member-portal/internal/infrastructure/db/redis"
	"github.com/pdpi/member-portal/internal/infrastructure/fixtures"
	"github.com/pdpi/member-portal/internal/infrastructure/http/handlers"
	"github.com/pdpi/member-portal/internal/infrastructure/queue"
	"github.com/pdpi/member-portal/internal/infrastructure/storage"
	"github.com/pdpi/member-portal/internal/pkg/token"
	"github.com/pdpi/member-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// repositories is the storage backend selected by STORAGE_DRIVER.
type repositories struct {
	users     ports.UserRepository
	members   ports.MemberRepository
	tokens    ports.RefreshTokenStore
	dedup     ports.ViewDeduper
	news      ports.NewsRepository
	agenda    ports.AgendaRepository
	directory ports.DirectoryRepository
	menus     ports.MenuRepository
	site      interface {
		ports.SiteRepository
		ports.SiteSeeder
	}
	pingers []handlers.Pinger
	close   func(context.Context)
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "portal-api",
	})

	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
	}
	defer repos.close(context.Background())

	if err := seed(ctx, cfg, repos, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed fixtures")
	}

	issuer := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	store := storage.NewDiskStore(cfg.Upload.Dir, cfg.Upload.PublicPath)

	// View counting runs off the request path.
	workerCtx, stopWorkers := context.WithCancel(ctx)
	views := queue.NewDispatcher(cfg.Views.Workers, service.NewViewService(repos.news, repos.dedup, logger.Component("views")), logger.Component("views"))
	views.Start(workerCtx)

	e := api.NewRouter(api.Deps{
		Log:              log,
		APIPrefix:        cfg.APIPrefix,
		Issuer:           issuer,
		Auth:             service.NewAuthService(repos.users, repos.tokens, issuer, logger.Component("auth")),
		News:             service.NewNewsService(repos.news, logger.Component("news")),
		Agenda:           service.NewAgendaService(repos.agenda, logger.Component("agenda")),
		Directory:        service.NewDirectoryService(repos.directory, logger.Component("directory")),
		Menus:            service.NewMenuService(repos.menus, logger.Component("menus")),
		Site:             service.NewSiteService(repos.site, logger.Component("site")),
		Members:          service.NewMemberService(repos.members, logger.Component("members")),
		Upload:           service.NewUploadService(store, cfg.Upload.MaxBytes, logger.Component("upload")),
		Views:            views,
		UploadDir:        store.Root(),
		UploadPublicPath: store.PublicPath(),
		BodyLimit:        bodyLimit(cfg.Upload.MaxBytes),
		Pingers:          repos.pingers,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.Storage.Driver).Msg("Starting HTTP server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown")
	}
	stopWorkers()
	views.Wait()

	log.Info().Msg("Server stopped")
}

func openRepositories(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn().Msg("Using in-memory storage; data is lost on restart")
		users := memory.NewUserRepository()
		return &repositories{
			users:     users,
			members:   users,
			tokens:    memory.NewTokenStore(),
			dedup:     memory.NewViewDeduper(cfg.Views.DedupTTL),
			news:      memory.NewNewsRepository(),
			agenda:    memory.NewAgendaRepository(),
			directory: memory.NewDirectoryRepository(),
			menus:     memory.NewMenuRepository(),
			site:      memory.NewSiteRepository(),
			close:     func(context.Context) {},
		}, nil
	}

	log.Info().Str("database", cfg.Mongo.Database).Msg("Connecting to MongoDB")
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Info().Str("addr", cfg.Redis.Addr).Msg("Connecting to Redis")
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	users := mongodb.NewUserRepository(db)
	return &repositories{
		users:     users,
		members:   users,
		tokens:    redisdb.NewTokenStore(rdb),
		dedup:     redisdb.NewViewDeduper(rdb, cfg.Views.DedupTTL),
		news:      mongodb.NewNewsRepository(db),
		agenda:    mongodb.NewAgendaRepository(db),
		directory: mongodb.NewDirectoryRepository(db),
		menus:     mongodb.NewMenuRepository(db),
		site:      mongodb.NewSiteRepository(db),
		pingers:   []handlers.Pinger{mongodb.Pinger{DB: db}, redisdb.Pinger{Client: rdb}},
		close: func(ctx context.Context) {
			_ = rdb.Close()
			_ = client.Disconnect(ctx)
		},
	}, nil
}

func seed(ctx context.Context, cfg *config.Config, repos *repositories, log zerolog.Logger) error {
	cost := bcrypt.DefaultCost
	if !cfg.IsProduction() {
		cost = bcrypt.MinCost
	}
	bundle, err := fixtures.Load(cfg.Auth.SeedPassword, cost, time.Now().UTC())
	if err != nil {
		return err
	}
	seeded, err := fixtures.Seed(ctx, bundle, fixtures.Targets{
		Users:     repos.users,
		News:      repos.news,
		Agenda:    repos.agenda,
		Directory: repos.directory,
		Menus:     repos.menus,
		Site:      repos.site,
	})
	if err != nil {
		return err
	}
	if seeded {
		log.Info().Int("users", len(bundle.Users)).Int("news", len(bundle.News)).Msg("Fixtures loaded")
	}
	return nil
}

// bodyLimit leaves room for multipart framing around the largest upload.
func bodyLimit(maxUpload int64) string {
	return fmt.Sprintf("%dK", maxUpload/1024+512)
}
