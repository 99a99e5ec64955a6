package camunda

import (
	"context"
	"sync"
	"time"

	"endicode-workers/internal/common/config"
	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/common/metrics"
	"endicode-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is the Handle method every worker package exposes.
type JobHandler func(client worker.JobClient, job entities.Job)

// Manager opens job workers and closes them together on shutdown.
type Manager struct {
	client zbc.Client
	obs    *observability.Observability
	log    logger.Logger

	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewManager(client zbc.Client, obs *observability.Observability, log logger.Logger) *Manager {
	return &Manager{
		client:  client,
		obs:     obs,
		log:     log.WithFields(map[string]interface{}{"component": "worker-manager"}),
		workers: make(map[string]worker.JobWorker),
	}
}

// Register opens a worker for taskType unless it is disabled. It reports
// whether a worker was started.
func (m *Manager) Register(taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		m.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workers[taskType]; ok {
		m.log.Warn("worker already registered", map[string]interface{}{"taskType": taskType})
		return false
	}

	jw := m.client.NewJobWorker().
		JobType(taskType).
		Handler(instrument(taskType, m.obs, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()
	m.workers[taskType] = jw

	m.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return true
}

// TaskTypes lists the running workers.
func (m *Manager) TaskTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.workers))
	for t := range m.workers {
		out = append(out, t)
	}
	return out
}

// Close stops polling and waits for in-flight jobs.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for taskType, jw := range m.workers {
		jw.Close()
		jw.AwaitClose()
		m.log.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
	m.workers = make(map[string]worker.JobWorker)
}

func instrument(taskType string, obs *observability.Observability, handler JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		done := metrics.TrackJob(taskType)
		defer func() {
			done()
			obs.RecordJob(context.Background(), taskType, time.Since(start))
		}()
		handler(client, job)
	}
}
