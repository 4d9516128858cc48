package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	sendTimeout    = 30 * time.Second
	failureTimeout = 5 * time.Second
)

// ErrDispatcherStopped is returned by Enqueue once Stop has been called.
var ErrDispatcherStopped = errors.New("mail dispatcher stopped")

// DeliveryMeter observes delivery outcomes and per-worker backlog.
type DeliveryMeter interface {
	OnDelivery(ok bool)
	QueueDepth(workerID, depth int)
}

// FailureFunc is called with every message the sender gave up on.
type FailureFunc func(ctx context.Context, msg ports.EmailMessage)

type nopDeliveryMeter struct{}

func (nopDeliveryMeter) OnDelivery(bool)     {}
func (nopDeliveryMeter) QueueDepth(int, int) {}

// MailDispatcher routes outgoing emails to a fixed set of workers using
// consistent hashing on the recipient, so mail to one address goes out in order.
type MailDispatcher struct {
	workers []chan ports.EmailMessage
	sender  ports.MailSender
	meter   DeliveryMeter
	onFail  FailureFunc
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewMailDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. meter may be nil.
func NewMailDispatcher(numWorkers int, sender ports.MailSender, meter DeliveryMeter, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if meter == nil {
		meter = nopDeliveryMeter{}
	}
	d := &MailDispatcher{
		workers: make([]chan ports.EmailMessage, numWorkers),
		sender:  sender,
		meter:   meter,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.EmailMessage, channelBuffer)
	}
	return d
}

// OnFailure registers fn for messages that could not be delivered.
// It must be called before Start.
func (d *MailDispatcher) OnFailure(fn FailureFunc) {
	d.onFail = fn
}

// Start launches all worker goroutines. Workers exit when ctx is cancelled or
// after Stop has drained their queue.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands msg to the worker responsible for its recipient. It blocks
// while that worker's buffer is full, until ctx is done.
func (d *MailDispatcher) Enqueue(ctx context.Context, msg ports.EmailMessage) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrDispatcherStopped
	}

	idx := d.shardIndex(msg.To)
	select {
	case d.workers[idx] <- msg:
		d.meter.QueueDepth(idx, len(d.workers[idx]))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new messages, lets the workers drain what is queued and waits for them.
func (d *MailDispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(to)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.EmailMessage) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			d.meter.QueueDepth(id, len(ch))
			d.deliver(ctx, id, msg)
		}
	}
}

func (d *MailDispatcher) deliver(ctx context.Context, id int, msg ports.EmailMessage) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, msg); err != nil {
		d.meter.OnDelivery(false)
		d.log.Error().Err(err).
			Str("to", msg.To).
			Int("worker_id", id).
			Msg("email delivery failed")
		if d.onFail != nil {
			failCtx, cancelFail := context.WithTimeout(context.WithoutCancel(ctx), failureTimeout)
			defer cancelFail()
			d.onFail(failCtx, msg)
		}
		return
	}
	d.meter.OnDelivery(true)
	d.log.Debug().Str("to", msg.To).Int("worker_id", id).Msg("email delivered")
}
