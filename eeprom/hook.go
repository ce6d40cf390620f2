package eeprom

import "github.com/sarchlab/eeprom/idgen"

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered.
type HookCtx struct {
	Domain NamedHookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable defines an object that accept Hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns all the hooks registered.
	Hooks() []Hook
}

// NamedHookable is a Hookable that has a name.
type NamedHookable interface {
	Hookable
	Name() string
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other type that implement
// the Hookable interface.
type HookableBase struct {
	hookList []Hook
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook register a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	for _, h := range h.hookList {
		if h == hook {
			panic("duplicated hook")
		}
	}
}

// InvokeHook triggers the register Hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}

// Hook positions of the driver.
var (
	// HookPosRequestStart is triggered when a logical request is accepted.
	// The item is a Request.
	HookPosRequestStart = &HookPos{Name: "RequestStart"}

	// HookPosRequestEnd is triggered when a logical request returns. The
	// item is a Request and the detail is the returned error, if any.
	HookPosRequestEnd = &HookPos{Name: "RequestEnd"}

	// HookPosTransactionStart is triggered before a bus transaction. The
	// item is a Transaction.
	HookPosTransactionStart = &HookPos{Name: "TransactionStart"}

	// HookPosTransactionEnd is triggered after a bus transaction. The item is
	// a Transaction and the detail is the transport error, if any.
	HookPosTransactionEnd = &HookPos{Name: "TransactionEnd"}

	// HookPosWriteCycle is triggered after the write-cycle delay that
	// follows a write transaction. The item is the Transaction.
	HookPosWriteCycle = &HookPos{Name: "WriteCycle"}
)

// Kind tells what a request or a transaction does.
type Kind string

// Kinds of requests and transactions.
const (
	KindRead        Kind = "read"
	KindWrite       Kind = "write"
	KindErase       Kind = "erase"
	KindReadNumber  Kind = "read_number"
	KindWriteNumber Kind = "write_number"
)

// IsWrite returns true if the kind changes device content.
func (k Kind) IsWrite() bool {
	return k == KindWrite || k == KindErase || k == KindWriteNumber
}

// Request is a logical driver call.
type Request struct {
	ID     idgen.ID
	Kind   Kind
	Page   int
	Offset int
	Size   int
}

// Transaction is one physical bus transaction issued for a request.
type Transaction struct {
	ID       idgen.ID
	ParentID idgen.ID
	Kind     Kind
	Page     int
	Offset   int
	Address  uint32
	Length   int
}
