package health

import (
	"context"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// DepStatus reports one dependency's reachability and round-trip time.
type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

// Result is the /health/json payload.
type Result struct {
	Status       string               `json:"status"`
	GoVersion    string               `json:"goVersion"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

// Collect pings the database and Redis. Either may be nil, in which case it
// is reported as disconnected.
func Collect(ctx context.Context, db *gorm.DB, rdb *redis.Client) Result {
	result := Result{
		Status:       "ok",
		GoVersion:    runtime.Version(),
		Dependencies: make(map[string]DepStatus),
	}

	dbStatus := "disconnected"
	var dbPingMs *int64
	if db != nil {
		start := time.Now()
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err == nil {
			ms := time.Since(start).Milliseconds()
			dbPingMs = &ms
			dbStatus = "connected"
		} else {
			dbStatus = "error"
		}
	}
	result.Dependencies["database"] = DepStatus{Status: dbStatus, PingMs: dbPingMs}

	redisStatus := "disconnected"
	var redisPingMs *int64
	if rdb != nil {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			redisPingMs = &ms
			redisStatus = "connected"
		} else {
			redisStatus = "error"
		}
	}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPingMs}

	if dbStatus == "error" || redisStatus == "error" {
		result.Status = "degraded"
	}
	return result
}

// Handlers serves the health endpoint.
type Handlers struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	return c.JSON(Collect(c.Context(), h.DB, h.Rdb))
}
