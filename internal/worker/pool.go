// Package worker implements the buffered worker pool that decouples plate
// appearance ingestion from storage writes. Handlers enqueue and return;
// workers batch appearances and flush them to the event store, then update
// the player cache.
package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/fakebaseball/stats-api/internal/models"
	"github.com/fakebaseball/stats-api/internal/store"
)

// Prometheus metrics
var (
	appearancesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastats_appearances_ingested_total",
		Help: "Total number of plate appearances accepted onto the queue",
	})

	appearancesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastats_appearances_processed_total",
		Help: "Total number of plate appearances written by workers",
	})

	appearancesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastats_appearances_failed_total",
		Help: "Total number of plate appearances that failed to write",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pastats_worker_queue_depth",
		Help: "Current depth of the worker queue",
	})

	batchWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pastats_batch_write_duration_seconds",
		Help:    "Duration of batch writes to the event store",
		Buckets: prometheus.DefBuckets,
	})

	appearancesLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pastats_appearances_load_shed_total",
		Help: "Total number of plate appearances dropped due to load shedding",
	})
)

// Job represents a unit of work for the worker pool
type Job struct {
	Appearance *models.PlateAppearance
	BatchID    uuid.UUID
	Timestamp  time.Time
}

// PoolConfig configures the worker pool. Cache is optional.
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	WriteTimeout  time.Duration
	Writer        store.AppearanceWriter
	Cache         *store.PlayerCache
	Logger        *zap.Logger
}

// Pool manages a pool of workers for async appearance writes
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop closes the queue and waits for the workers to flush what is left.
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")
	close(p.jobQueue)
	p.wg.Wait()
	p.cancel()
	p.logger.Info("Worker pool stopped")
}

// Enqueue adds an appearance to the queue without blocking. It returns false
// when the queue is full or the pool has stopped; the appearance is dropped.
func (p *Pool) Enqueue(pa *models.PlateAppearance, batchID uuid.UUID) bool {
	job := Job{
		Appearance: pa,
		BatchID:    batchID,
		Timestamp:  time.Now(),
	}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue appearance (pool stopped)", "error", r)
		}
	}()

	if p.ctx.Err() != nil {
		appearancesLoadShed.Inc()
		return false
	}

	select {
	case p.jobQueue <- job:
		appearancesIngested.Inc()
		return true
	default:
		p.logger.Warnw("Worker queue full, dropping appearance", "paID", pa.PAID, "batch", batchID)
		appearancesLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debugw("Worker started", "worker", id)

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Batch write failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			appearancesFailed.Add(float64(len(batch)))
		} else {
			p.logger.Debugw("Batch written", "worker", id, "batchSize", len(batch), "duration", time.Since(start))
			appearancesProcessed.Add(float64(len(batch)))
		}
		batchWriteDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// processBatch writes a batch to the event store and then records the
// appearances in the player cache. A later appearance in the batch with the
// same PA ID replaces an earlier one.
func (p *Pool) processBatch(batch []Job) error {
	if len(batch) == 0 {
		return nil
	}

	pas := make([]models.PlateAppearance, 0, len(batch))
	seen := make(map[int64]int, len(batch))
	for _, job := range batch {
		pa := *job.Appearance
		pa.PitcherName = sanitizeName(pa.PitcherName)
		pa.HitterName = sanitizeName(pa.HitterName)
		if i, dup := seen[pa.PAID]; dup {
			pas[i] = pa
			continue
		}
		seen[pa.PAID] = len(pas)
		pas = append(pas, pa)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.config.WriteTimeout)
	defer cancel()

	if err := p.config.Writer.WriteAppearances(ctx, pas); err != nil {
		return fmt.Errorf("write %d appearances: %w", len(pas), err)
	}

	p.processBatchSideEffects(ctx, pas)
	return nil
}

// processBatchSideEffects updates the player cache. Failures are logged and
// never fail the batch.
func (p *Pool) processBatchSideEffects(ctx context.Context, pas []models.PlateAppearance) {
	if p.config.Cache == nil {
		return
	}
	if err := p.config.Cache.RecordAppearances(ctx, pas); err != nil {
		p.logger.Errorw("Redis pipeline failed", "error", err)
	}
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}

// Helper functions

// sanitizeName drops control characters and collapses runs of whitespace
// to a single space.
func sanitizeName(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7f || c >= 0x80 {
			clean = false
			break
		}
		if c == ' ' && (i == 0 || i == len(s)-1 || s[i+1] == ' ') {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = sb.Len() > 0
		case unicode.IsControl(r):
		default:
			if space {
				sb.WriteByte(' ')
				space = false
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
