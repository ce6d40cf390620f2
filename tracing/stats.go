package tracing

import (
	"sync"
	"time"

	"github.com/sarchlab/eeprom/eeprom"
)

// Stats is a snapshot of what a driver has done.
type Stats struct {
	Requests       uint64        `json:"requests"`
	Reads          uint64        `json:"reads"`
	Writes         uint64        `json:"writes"`
	Erases         uint64        `json:"erases"`
	FailedRequests uint64        `json:"failed_requests"`
	Transactions   uint64        `json:"transactions"`
	FailedTxns     uint64        `json:"failed_transactions"`
	BytesRead      uint64        `json:"bytes_read"`
	BytesWritten   uint64        `json:"bytes_written"`
	WriteCycles    uint64        `json:"write_cycles"`
	WriteCycleTime time.Duration `json:"write_cycle_time"`
	BusyTime       time.Duration `json:"busy_time"`
}

// StatsTracer counts requests, transactions and bytes, and accumulates the
// time spent inside requests.
type StatsTracer struct {
	lock       sync.Mutex
	timeTeller TimeTeller
	stats      Stats
	inflight   map[eeprom.Request]time.Time
}

// NewStatsTracer creates a new StatsTracer.
func NewStatsTracer(timeTeller TimeTeller) *StatsTracer {
	return &StatsTracer{
		timeTeller: timeTeller,
		inflight:   make(map[eeprom.Request]time.Time),
	}
}

// Func updates the counters.
func (t *StatsTracer) Func(ctx eeprom.HookCtx) {
	t.lock.Lock()
	defer t.lock.Unlock()

	switch ctx.Pos {
	case eeprom.HookPosRequestStart:
		t.startRequest(ctx.Item.(eeprom.Request))
	case eeprom.HookPosRequestEnd:
		t.endRequest(ctx.Item.(eeprom.Request), hookError(ctx))
	case eeprom.HookPosTransactionEnd:
		t.endTransaction(ctx.Item.(eeprom.Transaction), hookError(ctx))
	case eeprom.HookPosWriteCycle:
		t.stats.WriteCycles++
		if d, ok := ctx.Detail.(time.Duration); ok {
			t.stats.WriteCycleTime += d
		}
	}
}

func (t *StatsTracer) startRequest(req eeprom.Request) {
	t.inflight[req] = t.timeTeller.Now()
	t.stats.Requests++

	switch req.Kind {
	case eeprom.KindRead, eeprom.KindReadNumber:
		t.stats.Reads++
	case eeprom.KindWrite, eeprom.KindWriteNumber:
		t.stats.Writes++
	case eeprom.KindErase:
		t.stats.Erases++
	}
}

func (t *StatsTracer) endRequest(req eeprom.Request, err error) {
	if err != nil {
		t.stats.FailedRequests++
	}

	start, ok := t.inflight[req]
	if !ok {
		return
	}

	delete(t.inflight, req)
	t.stats.BusyTime += t.timeTeller.Now().Sub(start)
}

func (t *StatsTracer) endTransaction(txn eeprom.Transaction, err error) {
	t.stats.Transactions++

	if err != nil {
		t.stats.FailedTxns++
		return
	}

	if txn.Kind.IsWrite() {
		t.stats.BytesWritten += uint64(txn.Length)
	} else {
		t.stats.BytesRead += uint64(txn.Length)
	}
}

// Snapshot returns a copy of the current statistics.
func (t *StatsTracer) Snapshot() Stats {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.stats
}

// Reset clears all the counters.
func (t *StatsTracer) Reset() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.stats = Stats{}
	t.inflight = make(map[eeprom.Request]time.Time)
}
