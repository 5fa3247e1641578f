package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically expires idle sessions.
type Janitor struct {
	cron  *cron.Cron
	store *Store
}

func NewJanitor(store *Store, every time.Duration) (*Janitor, error) {
	if every <= 0 {
		return nil, fmt.Errorf("janitor interval must be positive, got %s", every)
	}

	j := &Janitor{
		cron:  cron.New(),
		store: store,
	}
	if _, err := j.cron.AddFunc(fmt.Sprintf("@every %s", every), j.sweep); err != nil {
		return nil, fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	return j, nil
}

func (j *Janitor) sweep() {
	if removed := j.store.Expire(); removed > 0 {
		slog.Info("Expired idle sessions", "removed", removed, "remaining", j.store.Len())
	}
}

func (j *Janitor) Start() {
	slog.Info("Starting session janitor")
	j.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}
