package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/ambassador"
	"github.com/dmitrymomot/ambassador/middlewares"
	"github.com/dmitrymomot/ambassador/pkg/cache"
	"github.com/dmitrymomot/ambassador/pkg/cookie"
	"github.com/dmitrymomot/ambassador/pkg/logger"
	"github.com/dmitrymomot/ambassador/pkg/oauth"
	"github.com/dmitrymomot/ambassador/pkg/redis"
)

type config struct {
	Logger  logger.Config
	Sentry  logger.SentryConfig
	Redis   redis.Config
	Cookie  cookie.Config
	Discord oauth.DiscordConfig
	Address string `env:"ADDRESS" envDefault:":8080"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.NewWithSentry(cfg.Logger, cfg.Sentry,
		middlewares.RequestIDExtractor(),
		ambassador.AttemptIDExtractor(),
	)

	// DISCORD_OAUTH_CLIENT_ID, DISCORD_OAUTH_CLIENT_SECRET, DISCORD_OAUTH_CALLBACK_URL, ...
	oauthCfg, err := ambassador.LoadConfig("DISCORD_OAUTH_")
	if err != nil {
		log.Error("failed to load oauth config", slog.Any("error", err))
		os.Exit(1)
	}
	if oauthCfg.CallbackURL == "" {
		oauthCfg.CallbackURL = "/auth/discord/callback"
	}

	engine, err := ambassador.New(oauthCfg,
		ambassador.WithAdapter(oauth.Discord(cfg.Discord)),
		ambassador.WithLogger(log),
		ambassador.WithVerify(verifyUser),
	)
	if err != nil {
		log.Error("failed to create engine", slog.Any("error", err))
		os.Exit(1)
	}

	records, ready, shutdown := attemptRecords(ctx, cfg.Redis, log)

	cookies := cookie.New(cfg.Cookie.Options()...)
	auth := ambassador.NewHandler(engine, records,
		ambassador.WithCookieManager(cookies),
		ambassador.WithSuccessHandler(welcome),
		ambassador.WithFailureRedirect("/"),
		ambassador.WithFailureFlash(cookies.HasSecret()),
		ambassador.WithHandlerLogger(log),
	)

	r := chi.NewRouter()
	r.Use(middlewares.RequestID(), middlewares.Recover(log))
	r.Get("/", index(auth))
	r.Get("/health/ready", readiness(ready))
	r.Mount("/auth/discord", auth.Routes())

	if err := ambassador.Serve(ctx, ambassador.ServerConfig{
		Handler:       r,
		Logger:        log,
		Address:       cfg.Address,
		ShutdownHooks: []func(context.Context) error{shutdown},
	}); err != nil {
		log.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}

// attemptRecords keeps pending attempts in Redis when REDIS_URL is set,
// otherwise in process memory.
func attemptRecords(ctx context.Context, cfg redis.Config, log *slog.Logger) (cache.Cache[ambassador.Record], func(context.Context) error, func(context.Context) error) {
	if cfg.URL == "" {
		log.Info("using in-memory attempt storage")
		records := cache.NewMemory[ambassador.Record]()
		return records,
			func(context.Context) error { return nil },
			func(context.Context) error { return records.Close() }
	}

	client := redis.MustOpen(ctx, cfg)
	records := cache.NewRedis[ambassador.Record](client, nil, cache.WithPrefix("ambassador"))
	return records, redis.Healthcheck(client), redis.Shutdown(client)
}

func verifyUser(_ context.Context, res *ambassador.Result) (any, ambassador.Info, error) {
	if res.Identity.ID == "" {
		return nil, ambassador.Info{Message: "Discord did not return an account ID."}, nil
	}
	return res.Identity, ambassador.Info{}, nil
}

func welcome(w http.ResponseWriter, _ *http.Request, user any, info ambassador.Info) {
	resp := map[string]any{"user": user}
	if info.State != nil {
		resp["attempt"] = info.State.ID
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func index(auth *ambassador.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if msg, ok := auth.FailureMessage(w, r); ok {
			fmt.Fprintf(w, "<p>Sign-in failed: %s</p>", html.EscapeString(msg))
		}
		fmt.Fprint(w, `<a href="/auth/discord/">Sign in with Discord</a>`)
	}
}

func readiness(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := check(r.Context()); err != nil {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
