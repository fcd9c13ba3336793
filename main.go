package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"Plinth/internal/auth"
	"Plinth/internal/calc/footing"
	"Plinth/internal/calc/loads"
	"Plinth/internal/calc/premium/batch"
	"Plinth/internal/calc/premium/importer"
	"Plinth/internal/calc/premium/recommend"
	"Plinth/internal/calc/report"
	"Plinth/internal/config"
	"Plinth/internal/history"
	"Plinth/internal/repo"
	"Plinth/internal/respond"
)

const requestIDHeader = "X-Request-ID"

func CORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestID tags the request logger with the caller's X-Request-ID, or a fresh one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		logger := log.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		zerolog.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			zerolog.Ctx(r.Context()).Error().Interface("panic", v).Bytes("stack", debug.Stack()).Msg("handler panicked")
			respond.Error(w, http.StatusInternalServerError, "Internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}

// limitBody caps request bodies; multipart uploads get the larger limit.
func limitBody(body, upload int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := body
			if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				n = upload
			}
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

func health(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		database := "disabled"
		if db != nil {
			database = "ok"
			if err := db.PingContext(r.Context()); err != nil {
				zerolog.Ctx(r.Context()).Warn().Err(err).Msg("database ping failed")
				database = "unavailable"
			}
		}
		respond.OK(w, map[string]string{
			"status":   "ok",
			"version":  config.Version,
			"database": database,
		})
	}
}

// HandleList registers the API. The account routes are only mounted when users is non-nil.
func HandleList(router *mux.Router, cfg config.Config, users repo.Repository, db *sql.DB) {
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)
	api.Use(limitBody(cfg.MaxBodyBytes, cfg.MaxUpload))

	api.HandleFunc("/health", health(db)).Methods("GET")

	runner := batch.Runner{Workers: cfg.BatchWorkers, Timeout: cfg.DesignTimeout}

	loadsH := &loads.Handler{}
	footingH := &footing.Handler{Timeout: cfg.DesignTimeout}
	reportH := &report.Handler{Timeout: cfg.DesignTimeout}
	batchH := &batch.Handler{Runner: runner}
	importH := &importer.Handler{Runner: runner}
	recommendH := &recommend.Handler{Timeout: cfg.DesignTimeout}

	api.HandleFunc("/tools/loads/calc", loadsH.Calc).Methods("POST")
	api.HandleFunc("/tools/footing/calc", footingH.Calc).Methods("POST")
	api.HandleFunc("/tools/footing/report", reportH.Generate).Methods("POST")
	api.HandleFunc("/tools/footing/batch", batchH.Footing).Methods("POST")
	api.HandleFunc("/tools/footing/import", importH.Footing).Methods("POST")
	api.HandleFunc("/tools/footing/recommend", recommendH.Bars).Methods("POST")

	if users == nil {
		return
	}

	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: users, SecureCookie: cfg.TLS()}
	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	historyH := &history.Handler{Repo: users, Timeout: cfg.DesignTimeout}
	secureApi.HandleFunc("/designs", historyH.Save).Methods("POST")
	secureApi.HandleFunc("/designs", historyH.List).Methods("GET")
	secureApi.HandleFunc("/designs/{id}", historyH.Get).Methods("GET")
	secureApi.HandleFunc("/designs/{id}/report", historyH.Report).Methods("GET")
}

func newHandler(cfg config.Config, users repo.Repository, db *sql.DB) http.Handler {
	router := mux.NewRouter()
	HandleList(router, cfg, users, db)
	return requestID(logRequests(recoverPanics(CORS(cfg.CORSOrigin, router))))
}

func setupLogger(cfg config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Development() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	zerolog.DefaultContextLogger = &log.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db    *sql.DB
		users repo.Repository
	)
	if cfg.Accounts() {
		db, err = auth.InitDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("init database")
		}
		defer db.Close()

		pg := repo.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("init database")
		}
		users = pg
	} else {
		log.Warn().Msg("DATABASE_URL not set, accounts and saved designs disabled")
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, users, db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", cfg.Addr).Bool("tls", cfg.TLS()).Str("version", config.Version).Msg("starting server")
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, closing active connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	wg.Wait()
	log.Info().Msg("server stopped")
}
