package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned by Enqueue when no slot is free
	ErrQueueFull = errors.New("notification queue is full")
	// ErrDispatcherClosed is returned by Enqueue after Shutdown
	ErrDispatcherClosed = errors.New("notification dispatcher is closed")
)

// ResultFunc observes the outcome of each delivery attempt
type ResultFunc func(msg Message, err error)

// DispatcherOptions configures a Dispatcher
type DispatcherOptions struct {
	QueueSize int
	Workers   int
	// SendTimeout bounds every Send call
	SendTimeout time.Duration
	OnResult    ResultFunc
}

// Dispatcher queues messages and delivers them from background workers, so a
// slow or failing mail server never blocks a request.
type Dispatcher struct {
	sender  Sender
	logger  *zap.Logger
	opts    DispatcherOptions
	queue   chan Message
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	started bool
}

// NewDispatcher creates a Dispatcher. Call Start to run the workers.
func NewDispatcher(sender Sender, logger *zap.Logger, opts DispatcherOptions) *Dispatcher {
	if opts.QueueSize < 1 {
		opts.QueueSize = 1
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}
	return &Dispatcher{
		sender: sender,
		logger: logger,
		opts:   opts,
		queue:  make(chan Message, opts.QueueSize),
	}
}

// Start launches the worker goroutines. Calling it twice is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
}

// Enqueue schedules msg for delivery without blocking
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting messages and waits for queued ones to be
// delivered, or for ctx to end.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.SendTimeout)
	defer cancel()

	start := time.Now()
	err := d.sender.Send(ctx, msg)
	if err != nil {
		d.logger.Error("notification delivery failed",
			zap.Uint("contact_id", msg.ContactID),
			zap.String("to", msg.To),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
	} else {
		d.logger.Info("notification delivered",
			zap.Uint("contact_id", msg.ContactID),
			zap.String("to", msg.To),
			zap.Duration("duration", time.Since(start)),
		)
	}

	if d.opts.OnResult != nil {
		d.opts.OnResult(msg, err)
	}
}
