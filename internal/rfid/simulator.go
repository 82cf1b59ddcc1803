// Package rfid models the tag-read channel used where physical RFID hardware
// is unavailable. Each Simulator is a reader session owned by its caller, so
// two scan stations (or two tests) never share activation state.
package rfid

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"drc-backend/internal/codec"
	"drc-backend/internal/domain"
)

// Defaults match the demo hardware profile: a 200ms read, 5% transient
// failure on untargeted reads, 50ms pacing between batch reads.
const (
	DefaultReadLatency  = 200 * time.Millisecond
	DefaultFailureRate  = 0.05
	DefaultBatchPacing  = 50 * time.Millisecond
	DefaultBatchSize    = 5
	randomFleetSpan     = 100 // untargeted reads pick from DRC-MKT-0001..0100
	defaultLocationCode = "MKT"
)

// Tag is a simulated tag read, shaped like what a reader hands back.
type Tag struct {
	ID             string    `json:"id"`
	ContainerID    string    `json:"container_id"`
	SignalStrength int       `json:"signal_strength"` // 70-100
	BatteryLevel   int       `json:"battery_level"`   // 60-100
	LastRead       time.Time `json:"last_read"`
}

// ReadResult is the outcome of a single read attempt. ElapsedMs reflects the
// simulated channel latency; an inactive-reader failure is immediate.
type ReadResult struct {
	Success   bool   `json:"success"`
	Tag       *Tag   `json:"tag,omitempty"`
	Err       error  `json:"-"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

// Config tunes the simulated channel.
type Config struct {
	ReadLatency time.Duration
	FailureRate float64
	BatchPacing time.Duration
}

// DefaultConfig returns the demo hardware profile.
func DefaultConfig() Config {
	return Config{
		ReadLatency: DefaultReadLatency,
		FailureRate: DefaultFailureRate,
		BatchPacing: DefaultBatchPacing,
	}
}

// Simulator is one reader session. Reads require explicit activation;
// deactivating mid-batch fails subsequent reads without affecting earlier ones.
type Simulator struct {
	cfg Config

	mu     sync.Mutex
	active bool
	rng    *rand.Rand
}

// NewSimulator creates an inactive reader session seeded from the clock.
func NewSimulator(cfg Config) *Simulator {
	return NewSimulatorWithSource(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSimulatorWithSource creates a session with a caller-supplied random
// source, so tests can pin the failure dice.
func NewSimulatorWithSource(cfg Config, rng *rand.Rand) *Simulator {
	if cfg.ReadLatency <= 0 {
		cfg.ReadLatency = DefaultReadLatency
	}
	if cfg.BatchPacing <= 0 {
		cfg.BatchPacing = DefaultBatchPacing
	}
	return &Simulator{cfg: cfg, rng: rng}
}

// Activate turns the reader on. No reads happen implicitly.
func (s *Simulator) Activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
}

// Deactivate turns the reader off.
func (s *Simulator) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// Active reports the reader activation state.
func (s *Simulator) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Read performs one simulated tag read. A targeted read (containerID != "")
// always succeeds after the channel latency; an untargeted read fails with
// ErrTagReadFailure at the configured rate. Reading while inactive fails
// immediately without incurring latency.
func (s *Simulator) Read(ctx context.Context, containerID string) ReadResult {
	if !s.Active() {
		return failure(domain.ErrReaderInactive, 0)
	}

	start := time.Now()
	select {
	case <-ctx.Done():
		return failure(ctx.Err(), time.Since(start).Milliseconds())
	case <-time.After(s.cfg.ReadLatency):
	}
	elapsed := time.Since(start).Milliseconds()

	s.mu.Lock()
	roll := s.rng.Float64()
	s.mu.Unlock()
	if containerID == "" && roll < s.cfg.FailureRate {
		return failure(domain.ErrTagReadFailure, elapsed)
	}

	id := containerID
	if id == "" {
		id = s.randomContainerID()
	}
	s.mu.Lock()
	tag := &Tag{
		ID:             codec.GenerateRFIDTag(id, s.rng),
		ContainerID:    id,
		SignalStrength: 70 + s.rng.Intn(31),
		BatteryLevel:   60 + s.rng.Intn(41),
		LastRead:       time.Now(),
	}
	s.mu.Unlock()

	return ReadResult{Success: true, Tag: tag, ElapsedMs: elapsed}
}

// BatchRead performs n paced reads. Each read is independent: one failure
// does not affect the next, and per-read latency is honored rather than
// coalesced, so calling code sees real-hardware timing.
func (s *Simulator) BatchRead(ctx context.Context, n int) []ReadResult {
	if n <= 0 {
		n = DefaultBatchSize
	}
	results := make([]ReadResult, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				results = append(results, failure(ctx.Err(), 0))
				return results
			case <-time.After(s.cfg.BatchPacing):
			}
		}
		results = append(results, s.Read(ctx, ""))
	}
	return results
}

func (s *Simulator) randomContainerID() string {
	s.mu.Lock()
	seq := s.rng.Intn(randomFleetSpan) + 1
	s.mu.Unlock()
	return codec.ContainerID{LocationCode: defaultLocationCode, Sequence: seq}.String()
}

func failure(err error, elapsedMs int64) ReadResult {
	r := ReadResult{Success: false, Err: err, ElapsedMs: elapsedMs}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
