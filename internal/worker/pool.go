package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jumboscan/internal/importer"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueImportacion = "jobs:importacion"

	jobImportacion = "importacion"
	maxAttempts    = 3
	retryDelay     = 30 * time.Second
)

// Job is the envelope for every queued task.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// ImportJobPayload names the spreadsheet to load and what asked for it.
type ImportJobPayload struct {
	Ruta       string    `json:"ruta"`
	Solicitado time.Time `json:"solicitado"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueImportacion pushes an import job. Imports already waiting are not
// deduplicated; each one re-reads the file, so the last one wins.
func (d *Dispatcher) EnqueueImportacion(ctx context.Context, ruta string) error {
	return d.enqueue(ctx, QueueImportacion, Job{Type: jobImportacion}, ImportJobPayload{Ruta: ruta, Solicitado: time.Now().UTC()})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue string, job Job, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job.Payload = data
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Importador runs one import.
type Importador interface {
	Run(ctx context.Context, ruta string) (*importer.Reporte, error)
}

// WorkerHandlers holds the job processors wired in the composition root.
type WorkerHandlers struct {
	Importador Importador
}

// StartWorkerPool launches the import consumer. It is a single goroutine:
// imports rebuild the whole product table and must not overlap.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers) {
	go runWorker(ctx, rdb, handlers)
	log.Info().Str("queue", QueueImportacion).Msg("worker: started")
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker: shutting down")
			return
		default:
			// blocks up to 5s, then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueImportacion).Result()
			if err != nil || len(result) < 2 {
				continue
			}
			if err := processJob(ctx, rdb, handlers, result[0], result[1]); err != nil {
				log.Error().Err(err).Str("queue", result[0]).Msg("worker: job failed")
			}
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) error {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		SendToDLQ(ctx, rdb, queue, "unknown", json.RawMessage(fmt.Sprintf("%q", raw)), "malformed job: "+err.Error(), 0)
		return err
	}
	job.Attempts++

	switch job.Type {
	case jobImportacion:
		var p ImportJobPayload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, "invalid payload: "+err.Error(), job.Attempts)
			return err
		}
		_, err := handlers.Importador.Run(ctx, p.Ruta)
		if err == nil {
			return nil
		}
		// an unreadable file will not fix itself by retrying
		if errors.Is(err, importer.ErrArchivoIlegible) || job.Attempts >= maxAttempts {
			SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
			return err
		}
		requeue(ctx, rdb, queue, job)
		return err
	default:
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, "unknown job type", job.Attempts)
		return fmt.Errorf("unknown job type %q", job.Type)
	}
}

// requeue puts job back on the queue after retryDelay unless ctx ends first.
func requeue(ctx context.Context, rdb *redis.Client, queue string, job Job) {
	encoded, err := json.Marshal(job)
	if err != nil {
		return
	}
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("worker: requeue failed")
		}
	}()
	log.Warn().Str("queue", queue).Int("attempts", job.Attempts).Dur("delay", retryDelay).Msg("worker: job requeued")
}
