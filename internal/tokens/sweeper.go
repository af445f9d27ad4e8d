package tokens

import (
	"log/slog"
	"time"
)

// StartSweeper runs a goroutine that sweeps expired refresh tokens and
// blacklist entries on the given interval until done is closed.
func StartSweeper(svc *Service, interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := svc.Sweep(time.Now()); err != nil {
					slog.Error("token sweep failed", "error", err)
				}
			case <-done:
				return
			}
		}
	}()
}
