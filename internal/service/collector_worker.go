package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/trendlens/trendlens-go/internal/model"
)

// CollectorWorker is a periodic background job that runs a full-trending
// collection pass for each configured region. Cohorts are independent, so
// regions run sequentially within a tick without any cross-run coordination.
type CollectorWorker struct {
	svc      *CollectService
	regions  []string
	interval time.Duration
	stopCh   chan struct{}
}

// NewCollectorWorker creates a worker that ticks every interval.
func NewCollectorWorker(svc *CollectService, regions []string, interval time.Duration) *CollectorWorker {
	return &CollectorWorker{
		svc:      svc,
		regions:  regions,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic collection loop. It runs one tick immediately,
// then every interval.
func (w *CollectorWorker) Start(ctx context.Context) {
	log.Printf("collector: starting (interval=%s regions=%v)", w.interval, w.regions)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Println("collector: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Println("collector: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *CollectorWorker) Stop() {
	close(w.stopCh)
}

// tick runs one collection pass per configured region. Upstream outages are
// logged and skipped; the next tick retries naturally.
func (w *CollectorWorker) tick(ctx context.Context) {
	start := time.Now()
	var snapshots, outliers int

	for _, region := range w.regions {
		snap, err := w.svc.Run(ctx, region, "", 0)
		if err != nil {
			if errors.Is(err, model.ErrSourceUnavailable) {
				log.Printf("collector: source unavailable for %s, skipping until next tick", region)
			} else {
				log.Printf("collector: run error for %s: %v", region, err)
			}
			continue
		}
		snapshots++
		outliers += snap.OutlierCount
	}

	if snapshots > 0 {
		log.Printf("collector: tick complete: %d snapshots written, %d outliers flagged (%s)",
			snapshots, outliers, time.Since(start).Round(time.Millisecond))
	}
}
