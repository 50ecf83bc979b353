package notifier

import (
	"fmt"
	"sync"
	"time"

	"github.com/recurra-io/recurra/internal/domain/reminder"
	sharedConfig "github.com/recurra-io/recurra/internal/shared/config"
	"github.com/recurra-io/recurra/internal/shared/goroutine"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

const maxRetryBackoff = 30 * time.Second

// Dispatcher is the bounded delivery pool. Enqueue never blocks the caller;
// workers retry transient failures with exponential backoff and give up on
// permanent ones.
type Dispatcher struct {
	queue          chan reminder.DueItem
	emailSender    *EmailSender
	telegramSender *TelegramSender
	cfg            sharedConfig.NotifierConfig
	logger         logger.Interface
	wg             sync.WaitGroup
	startOnce      sync.Once
	stopOnce       sync.Once
}

func NewDispatcher(
	cfg sharedConfig.NotifierConfig,
	emailSender *EmailSender,
	telegramSender *TelegramSender,
	log logger.Interface,
) *Dispatcher {
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 16
	}
	if cfg.RetryAttempts < 0 {
		cfg.RetryAttempts = 0
	}
	if cfg.RetryBaseMS < 1 {
		cfg.RetryBaseMS = 2000
	}
	if log == nil {
		log = logger.NewLogger()
	}
	return &Dispatcher{
		queue:          make(chan reminder.DueItem, cfg.MaxConcurrency*4),
		emailSender:    emailSender,
		telegramSender: telegramSender,
		cfg:            cfg,
		logger:         log.Named("notifier"),
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		for i := 0; i < d.cfg.MaxConcurrency; i++ {
			d.wg.Add(1)
			name := fmt.Sprintf("notifier-worker-%d", i)
			goroutine.SafeGo(d.logger, name, func() {
				defer d.wg.Done()
				for item := range d.queue {
					d.deliver(item)
				}
			})
		}
		d.logger.Infow("notifier started", "workers", d.cfg.MaxConcurrency)
	})
}

// Enqueue hands a due reminder to the pool. A full queue drops the item: the
// reminder stays Pending and remains visible over HTTP and the event stream.
func (d *Dispatcher) Enqueue(item reminder.DueItem) {
	select {
	case d.queue <- item:
	default:
		d.logger.Warnw("notification queue full, dropping delivery",
			"reminder_id", item.Reminder.ID(), "user_id", item.User.ID())
	}
}

// Stop closes intake and waits up to grace for in-flight deliveries to drain.
func (d *Dispatcher) Stop(grace time.Duration) {
	d.stopOnce.Do(func() {
		close(d.queue)

		done := make(chan struct{})
		go func() {
			d.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			d.logger.Infow("notifier drained")
		case <-time.After(grace):
			d.logger.Warnw("notifier shutdown grace expired, abandoning in-flight deliveries")
		}
	})
}

func (d *Dispatcher) deliver(item reminder.DueItem) {
	sender := SenderFor(item.User.NotifyVia(), d.emailSender, d.telegramSender)

	var err error
	for attempt := 0; attempt <= d.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(d.cfg.RetryBaseMS) * time.Millisecond << (attempt - 1)
			if backoff > maxRetryBackoff {
				backoff = maxRetryBackoff
			}
			time.Sleep(backoff)
		}

		err = sender.Send(item)
		if err == nil {
			d.logger.Debugw("notification delivered",
				"reminder_id", item.Reminder.ID(),
				"user_id", item.User.ID(),
				"channel", item.User.NotifyVia(),
			)
			return
		}
		if IsPermanent(err) {
			d.logger.Warnw("notification not deliverable",
				"reminder_id", item.Reminder.ID(),
				"user_id", item.User.ID(),
				"channel", item.User.NotifyVia(),
				"error", err,
			)
			return
		}
	}

	d.logger.Errorw("notification delivery failed after retries",
		"reminder_id", item.Reminder.ID(),
		"user_id", item.User.ID(),
		"channel", item.User.NotifyVia(),
		"attempts", d.cfg.RetryAttempts+1,
		"error", err,
	)
}
