package events

import (
	"context"
	"time"
)

// Handler reacts to queue events and to the periodic reconciliation
// tick. Implementations are expected to be pkg/proctrack-backed: a
// new process triggers a fresh process_info_t publish, and a refresh
// re-reads every live process's mappings.
type Handler interface {
	HandleNewProcess(pid int)
	HandleRefresh()
}

// Run drains queue and fires a periodic reconciliation tick until ctx
// is canceled, mirroring cmd/consumption/main.go's
// select{ctx.Done(), ticker.C} sampling loop. reconcileInterval bounds
// how stale the process-info view can get after a dropped
// EVENT_NEW_PROCESS (spec §4.6: "user-space periodically reconciles
// by re-reading all live mappings").
func Run(ctx context.Context, queue *Queue, reconcileInterval time.Duration, h Handler) {
	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-queue.C():
			switch ev.Kind {
			case NewProcess:
				h.HandleNewProcess(ev.PID)
			case RefreshProcInfo:
				h.HandleRefresh()
			}
		case <-ticker.C:
			h.HandleRefresh()
		}
	}
}
