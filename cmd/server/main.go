package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/dlcaspar/apt-journal/backend/internal/auth/http"
	authservice "github.com/dlcaspar/apt-journal/backend/internal/auth/service"
	"github.com/dlcaspar/apt-journal/backend/internal/common/config"
	commoncrypto "github.com/dlcaspar/apt-journal/backend/internal/common/crypto"
	"github.com/dlcaspar/apt-journal/backend/internal/common/db"
	commonhttp "github.com/dlcaspar/apt-journal/backend/internal/common/http"
	"github.com/dlcaspar/apt-journal/backend/internal/common/jwtverify"
	"github.com/dlcaspar/apt-journal/backend/internal/common/logger"
	srv "github.com/dlcaspar/apt-journal/backend/internal/common/server"
	entryhttp "github.com/dlcaspar/apt-journal/backend/internal/entry/http"
	entryrepo "github.com/dlcaspar/apt-journal/backend/internal/entry/repository"
	entryservice "github.com/dlcaspar/apt-journal/backend/internal/entry/service"
	userrepo "github.com/dlcaspar/apt-journal/backend/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "journal", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if !cfg.TokensExpire() {
		log.Warn("JWT_DELTA_MINUTES not set: issued tokens never expire")
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	txManager := db.NewPgxTxManager(pool)
	users := userrepo.NewPgRepository()
	entries := entryrepo.NewPgRepository()

	hasher := &commoncrypto.BcryptHasher{}
	tokenIssuer := authservice.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	accountService := authservice.NewAccountService(txManager, pool, users, hasher, tokenIssuer, log)
	entryService := entryservice.NewService(txManager, users, entries, log)

	authMiddleware := jwtverify.Middleware(cfg.JWTSecret, log)

	usersHandler := authhttp.NewHandler(accountService, authMiddleware, cfg.RequestTimeout, log)
	entriesHandler := entryhttp.NewHandler(entryService, authMiddleware, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	mux.Handle("/users", usersHandler)
	mux.Handle("/users/", usersHandler)
	mux.Handle("/entries", entriesHandler)
	mux.Handle("/entries/", entriesHandler)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewCredentialRateLimiter()
	baseHandler := commonhttp.BuildBaseHandler(log, mux)

	rateLimitMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/users/signup" || path == "/users/signin" {
				rateLimiter.Middleware()(next).ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), rateLimitMiddleware(baseHandler))

	srv.StartWithGracefulShutdown(server, log, "journal", nil)
}
