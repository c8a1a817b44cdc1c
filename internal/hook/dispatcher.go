package hook

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher fans events out to subscribed hooks in the background.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	logger   *zap.SugaredLogger
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher over manager's hooks.
func NewDispatcher(manager *Manager, executor *Executor, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		manager:  manager,
		executor: executor,
		logger:   logger,
	}
}

// Fire runs every hook subscribed to event without blocking the caller.
// Failures are logged.
func (d *Dispatcher) Fire(ctx context.Context, event string, data any) {
	hooks := d.manager.ForEvent(event)
	if len(hooks) == 0 {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		d.logger.Warnw("failed to encode hook payload", "event", event, "error", err)
		return
	}

	for _, h := range hooks {
		req := &Request{
			Event:     event,
			Timestamp: time.Now().UnixMilli(),
			Config:    h.Manifest.Config,
			Data:      payload,
		}

		d.wg.Add(1)
		go func(h *Hook) {
			defer d.wg.Done()

			resp, err := d.executor.Execute(ctx, h, req)
			if err != nil {
				d.logger.Warnw("hook failed", "hook", h.Manifest.Name, "event", event, "error", err)
				return
			}
			if !resp.Success {
				d.logger.Warnw("hook reported failure", "hook", h.Manifest.Name, "event", event, "error", resp.Error)
				return
			}
			d.logger.Debugw("hook ran", "hook", h.Manifest.Name, "event", event)
		}(h)
	}
}

// Wait blocks until every fired hook has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
