package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v75/github"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/suvam/portfolio/blog/application"
	"github.com/suvam/portfolio/blog/domain"
	"github.com/suvam/portfolio/blog/persistence"
	"github.com/suvam/portfolio/internal/auth"
	"github.com/suvam/portfolio/internal/config"
	"github.com/suvam/portfolio/internal/middleware"
	"github.com/suvam/portfolio/internal/rest"
	gh "github.com/suvam/portfolio/shared/github"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store := newContentStore(cfg)

	limiter := auth.NewLoginLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow)
	defer limiter.Close()

	manager := auth.NewManager(cfg.AdminKey, cfg.SessionSecret, cfg.SecureCookies)
	service := application.NewPostService(store, auth.ContextGate{}, application.NewNormalizer())

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	router.Use(middleware.AdminMiddleware(manager))
	rest.NewApi(router, rest.NewPostsHandler(service), rest.NewAuthHandler(manager, limiter))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("backend", cfg.Backend).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}

// newContentStore selects the configured storage backend. Both satisfy
// domain.ContentStore, so nothing above this point cares which one runs.
func newContentStore(cfg *config.Config) domain.ContentStore {
	switch cfg.Backend {
	case config.BackendGithub:
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Github.Token})
		client := github.NewClient(oauth2.NewClient(context.Background(), ts))
		contents := gh.NewContentsRepository(client, cfg.Github.Owner, cfg.Github.Repo)
		log.Info().
			Str("repo", contents.GetRepoFullName()).
			Str("path", cfg.ContentPath).
			Msg("Using GitHub content store")
		return persistence.NewGithubStore(contents, cfg.ContentPath)
	default:
		return persistence.NewFilesystemStore(cfg.DataDir)
	}
}
