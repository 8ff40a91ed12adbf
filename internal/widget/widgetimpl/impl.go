package widgetimpl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/securent/feed-widget/internal/domain"
	"github.com/securent/feed-widget/internal/feed"
	"github.com/securent/feed-widget/internal/filter"
	"github.com/securent/feed-widget/internal/pagination"
	"github.com/securent/feed-widget/internal/render"
	"github.com/securent/feed-widget/internal/widget"
	"github.com/securent/feed-widget/pkg/config"
	"github.com/securent/feed-widget/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config   *config.Config
	Logger   logger.Logger
	Feed     feed.Accessor
	Renderer render.Renderer
	Filter   filter.Engine
}

type WidgetImpl struct {
	cfg       *config.Config
	logger    logger.Logger
	feed      feed.Accessor
	renderer  render.Renderer
	filterFn  filter.Engine
	filterCfg domain.FilterConfig

	activateOnce sync.Once

	mu             sync.Mutex
	state          widget.State
	isLoading      bool
	destroyed      bool
	scheduler      gocron.Scheduler
	pages          *pagination.State
	posts          []domain.Post
	fromCache      bool
	cacheTimestamp time.Time
	html           string
}

func New(opts Opts) (*WidgetImpl, error) {
	filterCfg, err := buildFilterConfig(opts.Config)
	if err != nil {
		return nil, err
	}

	return &WidgetImpl{
		cfg:       opts.Config,
		logger:    opts.Logger.WithComponent("Widget"),
		feed:      opts.Feed,
		renderer:  opts.Renderer,
		filterFn:  opts.Filter,
		filterCfg: filterCfg,
		state:     widget.StateIdle,
		pages:     pagination.New(opts.Config.Feed.ItemsPerPage),
	}, nil
}

var _ widget.Controller = (*WidgetImpl)(nil)

func buildFilterConfig(cfg *config.Config) (domain.FilterConfig, error) {
	start, err := filter.ParseDate(cfg.Feed.StartDate)
	if err != nil {
		return domain.FilterConfig{}, fmt.Errorf("invalid FEED_START_DATE: %w", err)
	}
	end, err := filter.ParseDate(cfg.Feed.EndDate)
	if err != nil {
		return domain.FilterConfig{}, fmt.Errorf("invalid FEED_END_DATE: %w", err)
	}
	return domain.FilterConfig{
		Keywords:  filter.ParseKeywords(cfg.Feed.FilterKeywords),
		StartDate: start,
		EndDate:   end,
	}, nil
}

// Activate is the lazy trigger: one-shot, later calls are no-ops.
func (w *WidgetImpl) Activate(ctx context.Context) {
	w.activateOnce.Do(func() {
		w.logger.Debug("Lazy trigger fired")
		w.LoadFeed(ctx, false)
	})
}

func (w *WidgetImpl) LoadFeed(ctx context.Context, force bool) {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	if w.isLoading {
		w.logger.Debug("Load already in flight, ignoring")
		w.mu.Unlock()
		return
	}
	if !force && (w.state == widget.StateRendered || w.state == widget.StateErrored) {
		w.mu.Unlock()
		return
	}
	w.isLoading = true
	w.state = widget.StateLoading
	w.mu.Unlock()

	result, err := w.feed.FetchFeed(ctx, w.cfg.Feed.ApiUrl)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.isLoading = false

	if w.destroyed {
		// Torn down while the fetch was in flight, discard the result.
		return
	}

	if err != nil {
		w.logger.Error("Feed load ended in hard failure", "error", err)
		w.state = widget.StateErrored
		w.posts = nil
		w.fromCache = false
		w.pages.Reset(0)
		w.renderLocked()
		return
	}

	if result.FromCache {
		w.logger.Warn("Rendering degraded result from cache", "cause", result.Error, "cached_at", result.Timestamp)
	}

	w.posts = w.filterFn(result.Posts, w.filterCfg)
	w.fromCache = result.FromCache
	w.cacheTimestamp = result.Timestamp
	w.pages.Reset(len(w.posts))
	w.state = widget.StateRendered
	w.renderLocked()
}

func (w *WidgetImpl) GoToPage(target int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.destroyed || w.state != widget.StateRendered {
		return false
	}
	if !w.pages.GoToPage(target) {
		return false
	}
	w.renderLocked()
	return true
}

func (w *WidgetImpl) HTML() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.html
}

func (w *WidgetImpl) State() widget.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// ScheduleRefresh arms a cron job that re-issues the full load sequence.
func (w *WidgetImpl) ScheduleRefresh(ctx context.Context) error {
	cronExpr := w.cfg.Feed.RefreshCron
	if cronExpr == "" {
		w.logger.Info("Scheduled refresh disabled")
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create refresh scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}
			w.logger.Info("Running scheduled feed refresh")

			refreshCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()

			w.LoadFeed(refreshCtx, true)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule feed refresh: %w", err)
	}

	scheduler.Start()

	w.mu.Lock()
	w.scheduler = scheduler
	w.mu.Unlock()
	return nil
}

func (w *WidgetImpl) Destroy() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	scheduler := w.scheduler
	w.scheduler = nil
	w.posts = nil
	w.html = ""
	w.state = widget.StateIdle
	w.mu.Unlock()

	// Shutdown waits for running jobs, so it must not hold the lock a
	// running LoadFeed may be waiting on.
	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			w.logger.Error("Failed to shut down refresh scheduler", "error", err)
		}
	}
	w.logger.Info("Widget destroyed")
}

// renderLocked rebuilds the frame for the current state. Callers hold w.mu.
func (w *WidgetImpl) renderLocked() {
	frame := render.Frame{
		Theme:       w.cfg.Feed.Theme,
		CurrentPage: w.pages.CurrentPage(),
		TotalPages:  w.pages.TotalPages(),
	}

	if w.state == widget.StateErrored {
		frame.Errored = true
		frame.FallbackMessage = w.cfg.Feed.FallbackMessage
		frame.FallbackURL = w.cfg.Feed.FallbackUrl
	} else {
		frame.Posts = w.pages.Slice(w.posts)
		frame.FromCache = w.fromCache
		frame.CacheTimestamp = w.cacheTimestamp
	}

	html, err := w.renderer.Render(frame)
	if err != nil {
		// Keep the previous frame rather than blanking the widget.
		return
	}
	w.html = html
}
