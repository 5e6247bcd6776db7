package watch

import (
	"context"
	"time"

	"github.com/penwyp/go-hours-report/internal/util"
)

// RefreshFunc rebuilds the report.
type RefreshFunc func(ctx context.Context) error

// Run refreshes once, then again after every burst of events has been
// quiet for debounce. Refresh errors are logged and the loop keeps going;
// Run returns when ctx is done or events is closed.
func Run(ctx context.Context, events <-chan FileEvent, debounce time.Duration, refresh RefreshFunc) error {
	runRefresh := func() {
		if err := refresh(ctx); err != nil {
			util.LogErrorf("Refresh failed: %v", err)
		}
	}

	runRefresh()

	// nil until an event arrives; a nil channel never fires.
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			util.LogDebugf("File changed: %s (%s)", event.Path, event.Operation)
			fire = time.After(debounce)

		case <-fire:
			fire = nil
			runRefresh()
		}
	}
}
