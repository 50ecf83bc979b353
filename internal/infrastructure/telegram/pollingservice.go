package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/recurra-io/recurra/internal/shared/goroutine"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

// UpdateHandler processes one inbound update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *Update) error
}

// PollingService runs the getUpdates long-poll loop and feeds updates to the
// handler.
type PollingService struct {
	botService   *BotService
	handler      UpdateHandler
	logger       logger.Interface
	pollTimeout  int
	stopChan     chan struct{}
	cancelFunc   context.CancelFunc
	wg           sync.WaitGroup
	lastUpdateID int64
	isRunning    bool
	runningMu    sync.Mutex
}

func NewPollingService(botService *BotService, handler UpdateHandler, pollTimeout int, log logger.Interface) *PollingService {
	if pollTimeout < 1 || pollTimeout > 60 {
		pollTimeout = 30
	}
	if log == nil {
		log = logger.NewLogger()
	}
	return &PollingService{
		botService:  botService,
		handler:     handler,
		logger:      log.Named("telegram-polling"),
		pollTimeout: pollTimeout,
		stopChan:    make(chan struct{}),
	}
}

// Start begins polling. No-op when the bot token is missing.
func (p *PollingService) Start() {
	p.runningMu.Lock()
	defer p.runningMu.Unlock()
	if p.isRunning {
		return
	}
	if !p.botService.Enabled() {
		p.logger.Infow("telegram polling disabled, no bot token configured")
		return
	}
	p.isRunning = true

	ctx, cancel := context.WithCancel(context.Background())
	p.cancelFunc = cancel

	p.wg.Add(1)
	goroutine.SafeGo(p.logger, "telegram-polling-loop", func() {
		defer p.wg.Done()
		p.pollLoop(ctx)
	})

	p.logger.Infow("telegram polling started", "timeout", p.pollTimeout)
}

// Stop cancels the in-flight poll and waits for the loop to exit.
func (p *PollingService) Stop() {
	p.runningMu.Lock()
	defer p.runningMu.Unlock()
	if !p.isRunning {
		return
	}
	p.isRunning = false

	close(p.stopChan)
	if p.cancelFunc != nil {
		p.cancelFunc()
	}
	p.wg.Wait()

	p.logger.Infow("telegram polling stopped")
}

func (p *PollingService) pollLoop(ctx context.Context) {
	for {
		select {
		case <-p.stopChan:
			return
		default:
		}

		updates, err := p.botService.GetUpdates(ctx, p.lastUpdateID+1, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warnw("failed to get telegram updates", "error", err)
			select {
			case <-time.After(5 * time.Second):
			case <-p.stopChan:
				return
			}
			continue
		}

		for i := range updates {
			update := &updates[i]
			if update.UpdateID > p.lastUpdateID {
				p.lastUpdateID = update.UpdateID
			}
			if err := p.handler.HandleUpdate(ctx, update); err != nil {
				p.logger.Errorw("failed to handle telegram update",
					"update_id", update.UpdateID, "error", err)
			}
		}
	}
}
