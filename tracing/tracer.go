// Package tracing provides hooks that observe the requests and the bus
// transactions of an EEPROM driver.
package tracing

import (
	"log"
	"time"

	"github.com/sarchlab/eeprom/eeprom"
)

// TimeTeller tells the current time.
type TimeTeller interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

// WallClock returns a TimeTeller backed by the system clock.
func WallClock() TimeTeller {
	return wallClock{}
}

func hookError(ctx eeprom.HookCtx) error {
	err, _ := ctx.Detail.(error)
	return err
}

// LogTracer is a hook that prints one line for every bus transaction and every
// finished request.
type LogTracer struct {
	logger *log.Logger
}

// NewLogTracer creates a new LogTracer.
func NewLogTracer(logger *log.Logger) *LogTracer {
	return &LogTracer{logger: logger}
}

// Func prints the event.
func (t *LogTracer) Func(ctx eeprom.HookCtx) {
	switch ctx.Pos {
	case eeprom.HookPosTransactionEnd:
		txn := ctx.Item.(eeprom.Transaction)
		t.logger.Printf("%s, txn, %s, %s, page %d, offset %d, 0x%04x, %d, %s\n",
			ctx.Domain.Name(),
			txn.ID,
			txn.Kind,
			txn.Page,
			txn.Offset,
			txn.Address,
			txn.Length,
			status(hookError(ctx)),
		)
	case eeprom.HookPosRequestEnd:
		req := ctx.Item.(eeprom.Request)
		t.logger.Printf("%s, req, %s, %s, page %d, offset %d, %d, %s\n",
			ctx.Domain.Name(),
			req.ID,
			req.Kind,
			req.Page,
			req.Offset,
			req.Size,
			status(hookError(ctx)),
		)
	}
}

func status(err error) string {
	if err == nil {
		return "ok"
	}

	return "failed: " + err.Error()
}
