package tracing

import (
	"sync"
	"time"

	"github.com/sarchlab/eeprom/datarecording"
	"github.com/sarchlab/eeprom/eeprom"
)

// Table names used by the DBTracer.
const (
	RequestTable     = "eeprom_requests"
	TransactionTable = "eeprom_transactions"
)

// RequestEntry is a row of the request table.
type RequestEntry struct {
	ID        string
	Location  string
	Kind      string
	Page      int
	Offset    int
	Size      int
	StartTime float64
	EndTime   float64
	Error     string
}

// TransactionEntry is a row of the transaction table.
type TransactionEntry struct {
	ID        string
	ParentID  string
	Location  string
	Kind      string
	Page      int
	Offset    int
	Address   uint64
	Length    int
	StartTime float64
	EndTime   float64
	Error     string
}

// DBTracer is a hook that records requests and transactions into a database.
// Times are seconds since the tracer was created.
type DBTracer struct {
	lock         sync.Mutex
	timeTeller   TimeTeller
	dataRecorder datarecording.DataRecorder
	origin       time.Time

	pendingRequests     map[string]*RequestEntry
	pendingTransactions map[string]*TransactionEntry
}

// NewDBTracer creates a new DBTracer and the tables it writes to.
func NewDBTracer(
	dataRecorder datarecording.DataRecorder,
	timeTeller TimeTeller,
) *DBTracer {
	t := &DBTracer{
		timeTeller:          timeTeller,
		dataRecorder:        dataRecorder,
		origin:              timeTeller.Now(),
		pendingRequests:     make(map[string]*RequestEntry),
		pendingTransactions: make(map[string]*TransactionEntry),
	}

	t.dataRecorder.CreateTable(RequestTable, RequestEntry{})
	t.dataRecorder.CreateTable(TransactionTable, TransactionEntry{})

	return t
}

func (t *DBTracer) now() float64 {
	return t.timeTeller.Now().Sub(t.origin).Seconds()
}

// Func records the event.
func (t *DBTracer) Func(ctx eeprom.HookCtx) {
	t.lock.Lock()
	defer t.lock.Unlock()

	switch ctx.Pos {
	case eeprom.HookPosRequestStart:
		t.startRequest(ctx)
	case eeprom.HookPosRequestEnd:
		t.endRequest(ctx)
	case eeprom.HookPosTransactionStart:
		t.startTransaction(ctx)
	case eeprom.HookPosTransactionEnd:
		t.endTransaction(ctx)
	}
}

func (t *DBTracer) startRequest(ctx eeprom.HookCtx) {
	req := ctx.Item.(eeprom.Request)

	t.pendingRequests[req.ID.String()] = &RequestEntry{
		ID:        req.ID.String(),
		Location:  ctx.Domain.Name(),
		Kind:      string(req.Kind),
		Page:      req.Page,
		Offset:    req.Offset,
		Size:      req.Size,
		StartTime: t.now(),
	}
}

func (t *DBTracer) endRequest(ctx eeprom.HookCtx) {
	req := ctx.Item.(eeprom.Request)

	entry, ok := t.pendingRequests[req.ID.String()]
	if !ok {
		return
	}

	delete(t.pendingRequests, entry.ID)

	entry.EndTime = t.now()
	if err := hookError(ctx); err != nil {
		entry.Error = err.Error()
	}

	t.dataRecorder.InsertData(RequestTable, *entry)
}

func (t *DBTracer) startTransaction(ctx eeprom.HookCtx) {
	txn := ctx.Item.(eeprom.Transaction)

	t.pendingTransactions[txn.ID.String()] = &TransactionEntry{
		ID:        txn.ID.String(),
		ParentID:  txn.ParentID.String(),
		Location:  ctx.Domain.Name(),
		Kind:      string(txn.Kind),
		Page:      txn.Page,
		Offset:    txn.Offset,
		Address:   uint64(txn.Address),
		Length:    txn.Length,
		StartTime: t.now(),
	}
}

func (t *DBTracer) endTransaction(ctx eeprom.HookCtx) {
	txn := ctx.Item.(eeprom.Transaction)

	entry, ok := t.pendingTransactions[txn.ID.String()]
	if !ok {
		return
	}

	delete(t.pendingTransactions, entry.ID)

	entry.EndTime = t.now()
	if err := hookError(ctx); err != nil {
		entry.Error = err.Error()
	}

	t.dataRecorder.InsertData(TransactionTable, *entry)
}

// Flush writes all buffered entries to the database.
func (t *DBTracer) Flush() {
	t.dataRecorder.Flush()
}
