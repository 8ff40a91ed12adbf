package widget

import "context"

// State is the externally observable lifecycle state of a widget instance.
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateRendered State = "rendered"
	StateErrored  State = "errored"
)

type Controller interface {
	// Activate fires the one-shot lazy trigger. The first call starts the
	// initial load; later calls do nothing.
	Activate(ctx context.Context)

	// LoadFeed runs the full fetch, filter, paginate, render sequence.
	// force re-enters from Rendered or Errored; a call while a load is
	// already in flight is silently ignored.
	LoadFeed(ctx context.Context, force bool)

	// GoToPage moves to a page of the filtered list and re-renders. An
	// out-of-range target is a no-op and reports false.
	GoToPage(target int) bool

	// HTML returns the last rendered frame.
	HTML() string

	State() State

	// ScheduleRefresh arms the optional periodic refresh job.
	ScheduleRefresh(ctx context.Context) error

	// Destroy disarms triggers and clears rendered content. An in-flight
	// fetch is not cancelled; its result is discarded on completion.
	Destroy()
}
