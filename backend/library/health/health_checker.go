package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"linkboard/backend/common"
)

const (
	StatusUnknown   = "unknown"
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Probe checks one backing dependency.
type Probe interface {
	Name() string
	Check(ctx context.Context) error
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc struct {
	ProbeName string
	Fn        func(ctx context.Context) error
}

func (p ProbeFunc) Name() string                    { return p.ProbeName }
func (p ProbeFunc) Check(ctx context.Context) error { return p.Fn(ctx) }

type Result struct {
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	LastChecked  time.Time `json:"last_checked"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// Checker 定期检查依赖（数据库、Redis）的健康状态
type Checker struct {
	probes        []Probe
	checkInterval time.Duration
	timeout       time.Duration

	mu      sync.RWMutex
	results map[string]Result

	lifecycleMu sync.Mutex
	stopChan    chan struct{}
	running     bool
}

func NewChecker(checkInterval time.Duration, probes ...Probe) *Checker {
	if checkInterval <= 0 {
		checkInterval = 1 * time.Minute
	}
	results := make(map[string]Result, len(probes))
	for _, p := range probes {
		results[p.Name()] = Result{Name: p.Name(), Status: StatusUnknown}
	}
	return &Checker{
		probes:        probes,
		checkInterval: checkInterval,
		timeout:       5 * time.Second,
		results:       results,
		stopChan:      make(chan struct{}),
	}
}

// Start 启动健康检查任务
func (c *Checker) Start() {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()
	if c.running {
		return
	}
	c.running = true
	go c.runChecks()
}

// Stop 停止健康检查任务
func (c *Checker) Stop() {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()
	if !c.running {
		return
	}
	c.stopChan <- struct{}{}
	c.running = false
}

func (c *Checker) runChecks() {
	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()

	// 立即进行一次检查
	c.CheckAll(context.Background())

	for {
		select {
		case <-ticker.C:
			c.CheckAll(context.Background())
		case <-c.stopChan:
			return
		}
	}
}

// CheckAll runs every probe concurrently and waits for all of them.
func (c *Checker) CheckAll(ctx context.Context) {
	var wg sync.WaitGroup
	for _, p := range c.probes {
		wg.Add(1)
		go func(p Probe) {
			defer wg.Done()
			c.check(ctx, p)
		}(p)
	}
	wg.Wait()
}

func (c *Checker) check(ctx context.Context, p Probe) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := Result{Name: p.Name(), Status: StatusHealthy, LastChecked: time.Now()}
	if err := p.Check(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.ErrorMessage = err.Error()
		common.SysError(fmt.Sprintf("health check %s failed: %v", p.Name(), err))
	}

	c.mu.Lock()
	previous := c.results[p.Name()]
	c.results[p.Name()] = result
	c.mu.Unlock()

	if previous.Status == StatusUnhealthy && result.Status == StatusHealthy {
		common.SysLog("health check " + p.Name() + " recovered")
	}
}

// Results returns the latest result of every probe, sorted by name.
func (c *Checker) Results() []Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Result, 0, len(c.results))
	for _, r := range c.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Healthy reports whether no probe is currently failing.
func (c *Checker) Healthy() bool {
	for _, r := range c.Results() {
		if r.Status == StatusUnhealthy {
			return false
		}
	}
	return true
}
