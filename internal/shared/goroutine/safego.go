// Package goroutine wraps background goroutine launches with panic recovery.
package goroutine

import (
	"runtime/debug"

	"github.com/recurra-io/recurra/internal/shared/logger"
)

// SafeGo runs fn on a new goroutine. A panic in fn is logged with its stack
// under the given name instead of taking the process down; the notifier
// workers and the telegram polling loop must not be able to kill the server.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if log == nil {
					log = logger.NewLogger()
				}
				log.Errorw("background goroutine panicked",
					"name", name,
					"panic", r,
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
