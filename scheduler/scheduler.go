// Package scheduler owns the automation lifecycle: a repeating timer
// that runs one policy+executor cycle per tick while enabled.
package scheduler

import (
	"sync"
	"time"

	"github.com/iamshubhamw08/AlgoTrade/core"
	"github.com/iamshubhamw08/AlgoTrade/executor"
	"github.com/iamshubhamw08/AlgoTrade/ledger"
	"github.com/iamshubhamw08/AlgoTrade/policy"
)

// Status represents the current scheduler state
type Status string

// Available scheduler states
const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
)

const defaultInterval = 3 * time.Second

// Config controls the tick cadence
type Config struct {
	// Interval between automated ticks. Defaults to 3 seconds.
	Interval time.Duration
	// FirstTickDelay postpones the first tick after Start. Zero means
	// the first tick fires immediately.
	FirstTickDelay time.Duration
}

// Scheduler drives the automated scan loop. Ticks are strictly
// sequential: the next tick cannot begin before the previous one has
// completed and its ledger mutation, if any, has been observed. The
// loop reads live ledger state on every tick, so the timer survives
// ledger mutations and is only torn down on Stop.
type Scheduler struct {
	mu     sync.Mutex
	tickMu sync.Mutex

	cfg    Config
	ledger *ledger.Ledger
	policy *policy.Policy
	exec   *executor.Executor
	log    core.Logger

	status    Status
	finish    chan struct{}
	afterTick func()
}

// New creates an idle scheduler
func New(cfg Config, l *ledger.Ledger, p *policy.Policy, e *executor.Executor, log core.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}

	return &Scheduler{
		cfg:    cfg,
		ledger: l,
		policy: p,
		exec:   e,
		log:    log,
		status: StatusIdle,
	}
}

// SetAfterTick registers a hook invoked after every completed cycle,
// manual or automated. The engine uses it to persist state.
func (s *Scheduler) SetAfterTick(fn func()) {
	s.afterTick = fn
}

// Status returns the current scheduler state
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start transitions the scheduler to RUNNING and arms the tick loop.
// Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusRunning {
		return
	}

	s.status = StatusRunning
	s.finish = make(chan struct{})
	go s.loop(s.finish)

	s.log.Info("Automation enabled")
}

// Stop cancels any pending tick and transitions to IDLE. An in-flight
// tick is allowed to finish rather than being aborted mid-way, so
// there is no torn-write window.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusRunning {
		return
	}

	s.status = StatusIdle
	close(s.finish)

	s.log.Info("Automation disabled")
}

// RunOnce executes a single scan cycle synchronously, bypassing the
// timer and the enabled flag. Used for on-demand "scan now" requests.
func (s *Scheduler) RunOnce() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.scan()

	if s.afterTick != nil {
		s.afterTick()
	}
}

func (s *Scheduler) loop(finish chan struct{}) {
	timer := time.NewTimer(s.cfg.FirstTickDelay)
	defer timer.Stop()

	for {
		select {
		case <-finish:
			return
		case <-timer.C:
			// Re-check under the status lock so a Stop between the
			// timer firing and the tick starting wins.
			if s.Status() == StatusRunning {
				s.RunOnce()
			}
			timer.Reset(s.cfg.Interval)
		}
	}
}

// scan is one cycle: simulate price movement for held positions, then
// let the policy classify the refreshed state and route its action, if
// any, through the executor. Automated rejections are absorbed: the
// tick simply produces no transaction.
func (s *Scheduler) scan() {
	for _, position := range s.ledger.Positions() {
		s.exec.MarkPrice(position.Symbol, position.LastPrice*s.policy.PerturbFactor())
	}

	action, ok := s.policy.Decide(s.ledger.Positions(), s.ledger.Balance())
	if !ok {
		return
	}

	_, err := s.exec.Execute(executor.Intent{
		Symbol:   action.Symbol,
		Name:     action.Name,
		Side:     action.Side,
		Quantity: action.Quantity,
		Price:    action.Price,
		Origin:   core.OriginTypeAuto,
	})
	if err != nil {
		// Cash or holdings may have moved between decision and
		// execution; automation degrades gracefully.
		s.log.WithError(err).Debug("automated trade rejected")
	}
}
