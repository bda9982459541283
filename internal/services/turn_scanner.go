package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"xaalis/internal/core"
	"xaalis/internal/events"
	"xaalis/internal/log"
)

// TontineLister is the read side of the store the scanner needs.
type TontineLister interface {
	Tontines() []core.Tontine
}

// TurnScannerConfig holds configuration for the turn scanner
type TurnScannerConfig struct {
	// Interval is how often tontines are checked (default: 1h)
	Interval time.Duration

	// Clock returns the current time (default: time.Now)
	Clock func() time.Time
}

// DefaultTurnScannerConfig returns sensible defaults
func DefaultTurnScannerConfig() TurnScannerConfig {
	return TurnScannerConfig{
		Interval: time.Hour,
		Clock:    time.Now,
	}
}

// TurnScanner periodically looks for tontines whose cycle says a new turn is
// due and announces each one once on the change feed. It never advances a
// turn itself; closing a turn stays a user decision.
type TurnScanner struct {
	source    TontineLister
	publisher events.Publisher
	logger    *log.Logger
	config    TurnScannerConfig

	// announced remembers the turn number already reported per tontine.
	scanMu    sync.Mutex
	announced map[uuid.UUID]int

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewTurnScanner creates a new turn scanner
func NewTurnScanner(source TontineLister, publisher events.Publisher, logger *log.Logger, config TurnScannerConfig) *TurnScanner {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = log.FromSlog(nil, log.ComponentScanner)
	}
	if config.Interval <= 0 {
		config.Interval = DefaultTurnScannerConfig().Interval
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	return &TurnScanner{
		source:    source,
		publisher: publisher,
		logger:    logger,
		config:    config,
		announced: make(map[uuid.UUID]int),
	}
}

// Start begins the scanning loop. Returns an error if already running.
func (s *TurnScanner) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("turn scanner is already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stop, done := s.stopCh, s.doneCh
	s.mu.Unlock()

	go s.runLoop(ctx, stop, done)

	s.logger.InfoContext(ctx, "Turn scanner started", "interval", s.config.Interval)
	return nil
}

// Stop signals the loop and waits for it to exit. Calling it again, even
// after a timeout, is a no-op.
func (s *TurnScanner) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	done := s.doneCh
	s.mu.Unlock()

	select {
	case <-done:
		s.logger.InfoContext(ctx, "Turn scanner stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "Turn scanner stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the scanner is currently running
func (s *TurnScanner) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *TurnScanner) runLoop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.Scan(ctx)

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Scan(ctx)
		}
	}
}

// Scan checks every tontine once and publishes a turn-due event for each one
// not yet announced for its upcoming turn. It returns how many were published.
func (s *TurnScanner) Scan(ctx context.Context) int {
	now := s.config.Clock()
	due := DueTontines(s.source.Tontines(), now)

	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	published := 0
	for _, t := range due {
		next := t.NextTurn()
		if s.announced[t.ID] == next {
			continue
		}

		ev, err := events.New(events.TontineTurnDue, t.ID, events.TurnDuePayload{
			TontineID:    t.ID,
			TontineName:  t.Name,
			Cycle:        t.Cycle,
			NextTurn:     next,
			Unpaid:       unpaidMembers(t),
			LastTurnDate: t.LastTurnDate(),
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to build turn due event", log.FieldTontineID, t.ID.String(), log.FieldError, err)
			continue
		}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish turn due event",
				log.FieldTontineID, t.ID.String(), log.FieldError, err)
			continue
		}
		s.announced[t.ID] = next
		published++

		s.logger.InfoContext(ctx, "Tontine turn due",
			log.FieldTontineID, t.ID.String(),
			log.FieldTurn, next,
			"cycle", string(t.Cycle))
	}
	return published
}

func unpaidMembers(t core.Tontine) []string {
	out := []string{}
	for _, m := range t.Members {
		if !m.HasPaid {
			out = append(out, m.Name)
		}
	}
	return out
}
