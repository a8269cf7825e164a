package command

import (
	"sync"
	"time"

	"github.com/uofuseismo/umps/internal/ulogging"
)

// DefaultEvictionMultiplier is how many multiples of a module's own
// PingIntervalMS it may stay silent before LivenessChecker evicts it.
const DefaultEvictionMultiplier = 3.0

// LivenessChecker periodically sweeps a Registry for modules that have
// stopped heartbeating and evicts them, logging each eviction. It is the
// sqlite-backed registry's ticker-driven watchdog, grounded on the
// teacher's health-check/watchdog loop pattern (a goroutine comparing
// elapsed time against a timeout on every tick).
type LivenessChecker struct {
	registry   *Registry
	interval   time.Duration
	multiplier float64
	logger     *ulogging.Logger

	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup
}

// NewLivenessChecker builds a checker that sweeps registry every interval,
// evicting modules silent for longer than multiplier times their own
// ping interval.
func NewLivenessChecker(registry *Registry, interval time.Duration, multiplier float64, logger *ulogging.Logger) *LivenessChecker {
	if multiplier <= 0 {
		multiplier = DefaultEvictionMultiplier
	}
	return &LivenessChecker{registry: registry, interval: interval, multiplier: multiplier, logger: logger}
}

// Start begins the sweep loop. Calling Start twice without an
// intervening Stop is a no-op.
func (c *LivenessChecker) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return
	}
	c.done = make(chan struct{})
	c.wg.Add(1)
	go c.run(c.done)
}

func (c *LivenessChecker) run(done chan struct{}) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			evicted, err := c.registry.EvictStale(c.multiplier)
			if err != nil {
				if c.logger != nil {
					c.logger.Error("liveness sweep failed", err)
				}
				continue
			}
			for _, name := range evicted {
				if c.logger != nil {
					c.logger.Warn("evicted stale module", "module", name)
				}
			}
		}
	}
}

// Stop halts the sweep loop and waits for it to exit.
func (c *LivenessChecker) Stop() {
	c.mu.Lock()
	done := c.done
	c.done = nil
	c.mu.Unlock()
	if done == nil {
		return
	}
	close(done)
	c.wg.Wait()
}
