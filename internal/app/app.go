package app

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"

	"github.com/securent/feed-widget/internal/cache"
	"github.com/securent/feed-widget/internal/cache/filestore"
	"github.com/securent/feed-widget/internal/cache/pgxstore"
	"github.com/securent/feed-widget/internal/feed"
	"github.com/securent/feed-widget/internal/feed/feedimpl"
	"github.com/securent/feed-widget/internal/fetcher"
	"github.com/securent/feed-widget/internal/fetcher/fetcherimpl"
	"github.com/securent/feed-widget/internal/filter"
	"github.com/securent/feed-widget/internal/render"
	"github.com/securent/feed-widget/internal/widget"
	"github.com/securent/feed-widget/internal/widget/widgetimpl"
	"github.com/securent/feed-widget/pkg/config"
	"github.com/securent/feed-widget/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
	),
	fx.Provide(
		newCacheStore,
		fx.Annotate(
			fetcherimpl.New,
			fx.As(new(fetcher.Client)),
		),
		fx.Annotate(
			feedimpl.New,
			fx.As(new(feed.Accessor)),
		),
		fx.Annotate(
			render.NewHTMLRenderer,
			fx.As(new(render.Renderer)),
		),
		func() filter.Engine { return filter.Apply },
		fx.Annotate(
			widgetimpl.New,
			fx.As(new(widget.Controller)),
		),
	),
	fx.Invoke(run),
)

// newCacheStore selects the cache backend. The file backend keeps the
// original single-feed key layout on disk; the postgres backend scopes the
// key by the configured endpoint so independent feeds can share a database.
func newCacheStore(lc fx.Lifecycle, cfg *config.Config, log logger.Logger) (cache.Store, error) {
	var (
		store cache.Store
		err   error
	)
	switch cfg.Cache.Backend {
	case "file", "":
		store, err = filestore.New(cfg.Cache.Dir, cfg.Cache.Key, log)
	case "postgres":
		store, err = pgxstore.New(context.Background(), cfg.GetDSN(), deriveCacheKey(cfg.Cache.Key, cfg.Feed.ApiUrl), log)
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND: %s (use 'file' or 'postgres')", cfg.Cache.Backend)
	}
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func deriveCacheKey(base, apiURL string) string {
	if apiURL == "" {
		return base
	}
	h := fnv.New32a()
	h.Write([]byte(apiURL))
	return fmt.Sprintf("%s-%08x", base, h.Sum32())
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, ctrl widget.Controller) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, cfg, ctrl)

			if err := ctrl.ScheduleRefresh(context.Background()); err != nil {
				log.Error("Schedule refresh error", "Error", err)
				return err
			}
			return nil
		},
		OnStop: func(context.Context) error {
			ctrl.Destroy()
			return nil
		},
	})
}

func startHttpServer(log logger.Logger, cfg *config.Config, ctrl widget.Controller) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	// The first request for the widget is the visibility signal: it fires
	// the one-shot lazy trigger. Loads run on a background context so an
	// impatient requester does not abort the fetch mid-flight.
	http.HandleFunc("/widget", func(w http.ResponseWriter, r *http.Request) {
		ctrl.Activate(context.Background())
		writeFrame(w, ctrl, log)
	})

	http.HandleFunc("/widget/page", func(w http.ResponseWriter, r *http.Request) {
		target, err := strconv.Atoi(r.URL.Query().Get("n"))
		if err != nil {
			http.Error(w, "invalid page number", http.StatusBadRequest)
			return
		}
		ctrl.GoToPage(target)
		writeFrame(w, ctrl, log)
	})

	http.HandleFunc("/widget/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ctrl.LoadFeed(context.Background(), true)
		writeFrame(w, ctrl, log)
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start: %v", err)
	}
}

func writeFrame(w http.ResponseWriter, ctrl widget.Controller, log logger.Logger) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.WriteString(w, ctrl.HTML()); err != nil {
		log.Error("Failed to write widget frame", "Error", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Info("Health check request received", "Method", r.Method, "URL", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "Error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
