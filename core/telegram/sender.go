package telegram

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/mirzoevumar0530-lab/EatHalalUSA/core/logger"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after sender stop.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")

	tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)
)

// SenderOptions controls the behaviour of the outbound sender.
type SenderOptions struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
}

type sendJob struct {
	ctx    context.Context
	action string
	run    func() error
}

// Sender executes outbound Telegram calls asynchronously with retries, so a
// slow API call never blocks the update that produced it.
type Sender struct {
	opts SenderOptions
	jobs chan sendJob
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewSender starts a sender with sane defaults if options are zeroed.
func NewSender(opts SenderOptions) *Sender {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}

	s := &Sender{
		opts: opts,
		jobs: make(chan sendJob, opts.QueueSize),
		stop: make(chan struct{}),
	}

	s.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go s.worker()
	}

	return s
}

// Enqueue schedules the provided function for asynchronous execution.
// The run closure must be idempotent if retries are desired.
func (s *Sender) Enqueue(ctx context.Context, action string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	select {
	case <-s.stop:
		return ErrQueueClosed
	default:
	}

	select {
	case s.jobs <- sendJob{ctx: ctx, action: action, run: run}:
		return nil
	case <-s.stop:
		return ErrQueueClosed
	default:
		return ErrQueueFull
	}
}

// Close stops workers and waits for them to finish processing queued jobs.
// The jobs channel is never closed, so a racing Enqueue can fail with
// ErrQueueClosed but can never panic.
func (s *Sender) Close() {
	s.once.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
}

func (s *Sender) worker() {
	defer s.wg.Done()
	for {
		select {
		case j := <-s.jobs:
			s.process(j)
		case <-s.stop:
			s.drain()
			return
		}
	}
}

// drain runs the jobs left in the queue after stop so accepted sends are not
// dropped on shutdown.
func (s *Sender) drain() {
	for {
		select {
		case j := <-s.jobs:
			s.process(j)
		default:
			return
		}
	}
}

func (s *Sender) process(j sendJob) {
	attempts := s.opts.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		err := j.run()
		if err == nil {
			if attempt > 1 {
				logger.Debug(j.ctx, "tg.sender", "send.recovered",
					slog.String("action", j.action),
					slog.Int("attempts", attempt),
				)
			}
			return
		}
		lastErr = err

		var flood tele.FloodError
		delay := s.opts.RetryBackoff * time.Duration(attempt)
		if errors.As(err, &flood) && flood.RetryAfter > 0 {
			delay = time.Duration(flood.RetryAfter) * time.Second
		}
		if attempt == attempts {
			break
		}
		time.Sleep(delay)
	}

	logger.Error(j.ctx, "tg.sender", "send.fail",
		slog.String("action", j.action),
		slog.Int("attempts", attempts),
		slog.String("err", sanitizeErrorMessage(lastErr)),
	)
}

// sanitizeErrorMessage prevents accidental leakage of Telegram bot tokens in logs.
func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}
