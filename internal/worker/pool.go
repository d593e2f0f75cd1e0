package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueLowStock = "jobs:low_stock"

	// AlertsLowStockKey holds the most recent alert per inventory record,
	// written by the worker and read by the alerts endpoint.
	AlertsLowStockKey = "alerts:low_stock"

	alertTTL = 24 * time.Hour
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// LowStockAlert is enqueued after a mutation leaves a record at or below its
// product's reorder level.
type LowStockAlert struct {
	InventoryID  string `json:"inventory_id"`
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	StoreID      string `json:"store_id"`
	CurrentStock int    `json:"current_stock"`
	ReorderLevel int    `json:"reorder_level"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueLowStock pushes a low-stock alert job to Redis.
func (d *Dispatcher) EnqueueLowStock(ctx context.Context, alert LowStockAlert) error {
	return d.enqueue(ctx, QueueLowStock, "low_stock", alert)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the job queues.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int) {
	queues := []string{QueueLowStock}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	switch job.Type {
	case "low_stock":
		handleLowStock(ctx, rdb, job.Payload)
	default:
		log.Warn().Str("type", job.Type).Str("queue", queue).Msg("unknown job type")
	}
}

// handleLowStock records the alert keyed by inventory id so the dashboard
// sees at most one live alert per record.
func handleLowStock(ctx context.Context, rdb *redis.Client, payload json.RawMessage) {
	var alert LowStockAlert
	if err := json.Unmarshal(payload, &alert); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal low stock alert")
		return
	}

	log.Warn().
		Str("inventory_id", alert.InventoryID).
		Str("product", alert.ProductName).
		Int("current_stock", alert.CurrentStock).
		Int("reorder_level", alert.ReorderLevel).
		Msg("low stock alert")

	if err := rdb.HSet(ctx, AlertsLowStockKey, alert.InventoryID, string(payload)).Err(); err != nil {
		log.Error().Err(err).Msg("failed to record low stock alert")
		return
	}
	rdb.Expire(ctx, AlertsLowStockKey, alertTTL)
}

// ListLowStockAlerts returns all live alerts, for the alerts endpoint.
func ListLowStockAlerts(ctx context.Context, rdb *redis.Client) ([]LowStockAlert, error) {
	entries, err := rdb.HGetAll(ctx, AlertsLowStockKey).Result()
	if err != nil {
		return nil, err
	}
	alerts := make([]LowStockAlert, 0, len(entries))
	for _, raw := range entries {
		var a LowStockAlert
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			continue
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

// ClearLowStockAlert drops the alert for one inventory record, called when a
// mutation brings stock back above the reorder level.
func ClearLowStockAlert(ctx context.Context, rdb *redis.Client, inventoryID string) {
	_ = rdb.HDel(ctx, AlertsLowStockKey, inventoryID)
}
