package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	statusUp   = "UP"
	statusDown = "DOWN"

	probeTimeout = 3 * time.Second
)

// DBPinger is satisfied by *sql.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RedisPinger is satisfied by *redis.Client.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// probe checks one backing service the records API cannot serve without.
type probe struct {
	name string
	down string
	ping func(ctx context.Context) error
}

type HealthHandler struct {
	probes  []probe
	started time.Time
	version string
	resp    *Responder
}

func NewHealthHandler(db DBPinger, redisClient RedisPinger, version string, resp *Responder) *HealthHandler {
	if version == "" {
		version = "unknown"
	}
	h := &HealthHandler{started: time.Now(), version: version, resp: resp}
	if db != nil {
		h.probes = append(h.probes, probe{name: "database", down: "records store unreachable", ping: db.PingContext})
	}
	if redisClient != nil {
		h.probes = append(h.probes, probe{name: "redis", down: "session store unreachable", ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}
	return h
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Index is the service banner.
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.resp.JSON(w, http.StatusOK, MessageResponse{Message: "Welcome to the tailoring records service"})
}

// Health only confirms the process is serving.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.resp.JSON(w, http.StatusOK, h.report(statusUp, map[string]Check{"process": {Status: statusUp}}))
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

// Ready pings every backing service; any failure answers 503.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]Check, len(h.probes))
	overall, code := statusUp, http.StatusOK
	for _, p := range h.probes {
		c := p.run(r.Context())
		if c.Status != statusUp {
			overall, code = statusDown, http.StatusServiceUnavailable
		}
		checks[p.name] = c
	}
	if len(h.probes) == 0 {
		overall, code = statusDown, http.StatusServiceUnavailable
	}
	h.resp.JSON(w, code, h.report(overall, checks))
}

func (h *HealthHandler) report(status string, checks map[string]Check) HealthResponse {
	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	}
}

func (p probe) run(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := p.ping(ctx); err != nil {
		return Check{Status: statusDown, Message: p.down}
	}
	return Check{Status: statusUp}
}
