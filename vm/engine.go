package vm

import (
	"math/big"

	"github.com/ef-ds/deque"

	vmerrors "github.com/dharitri/dvm-go/vm/errors"
	"github.com/dharitri/dvm-go/vm/state"
)

// Engine applies transactions to an in-memory world state. Execution is
// single threaded and call-stack structured: nesting is depth-first
// invocation, there is no scheduler and no preemption. Async calls are
// deferred work items drained in submission order after the triggering
// transaction's synchronous portion commits.
type Engine struct {
	ctx       Context
	world     *state.World
	contracts map[string]*contractCode

	asyncQueue    deque.Deque
	asyncEnqueued int
}

// NewEngine constructs an engine over a world state.
func NewEngine(ctx Context, world *state.World) *Engine {
	return &Engine{
		ctx:       ctx,
		world:     world,
		contracts: make(map[string]*contractCode),
	}
}

// World exposes the committed world state, for harnesses and checkers.
func (e *Engine) World() *state.World {
	return e.world
}

// RegisterContract installs contract code under a code name. Accounts
// whose CodeName matches execute these endpoints.
func (e *Engine) RegisterContract(name string, endpoints map[string]Handler) {
	e.contracts[name] = &contractCode{name: name, endpoints: endpoints}
}

// ExecuteTransaction runs one top-level transaction: the synchronous
// call tree first, then the async queue it left behind. The returned
// error is non-nil only for fatal failures; contract-level failures are
// reported through the result status.
func (e *Engine) ExecuteTransaction(input *TxInput) (*TxResult, error) {
	e.asyncQueue = deque.Deque{}
	e.asyncEnqueued = 0

	log := e.ctx.Logger.With().
		Str("tx", input.TxHash.String()).
		Str("func", input.FuncName).
		Logger()
	log.Debug().Str("input", input.String()).Msg("executing transaction")

	result, err := e.runFrame(e.world, input, false)
	if err != nil {
		return nil, err
	}
	if !result.Status.IsSuccess() {
		log.Debug().
			Stringer("status", result.Status).
			Str("message", result.Message).
			Msg("transaction failed")
		return result, nil
	}
	for _, call := range result.asyncCalls {
		e.asyncQueue.PushBack(call)
	}

	if err := e.drainAsyncQueue(result); err != nil {
		return nil, err
	}

	log.Debug().
		Int("logs", len(result.Logs)).
		Uint64("gas_remaining", result.GasRemaining).
		Msg("transaction committed")
	return result, nil
}

// drainAsyncQueue is the second execution pass: deferred calls run in
// submission order and their outcomes are delivered to the issuing
// contract's callback endpoint. Callbacks may defer further calls; those
// join the same queue. Logs emitted during the pass are appended to the
// transaction result.
func (e *Engine) drainAsyncQueue(result *TxResult) error {
	for {
		item, ok := e.asyncQueue.PopFront()
		if !ok {
			return nil
		}
		call := item.(*TxInput)

		callRes, err := e.runFrame(e.world, call, false)
		if err != nil {
			return err
		}
		result.Logs = append(result.Logs, callRes.Logs...)
		for _, deferred := range callRes.asyncCalls {
			e.asyncQueue.PushBack(deferred)
		}

		cbRes, err := e.deliverCallback(call, callRes)
		if err != nil {
			return err
		}
		if cbRes != nil {
			if cbRes.Status.IsSuccess() {
				result.Logs = append(result.Logs, cbRes.Logs...)
				for _, deferred := range cbRes.asyncCalls {
					e.asyncQueue.PushBack(deferred)
				}
			} else {
				// a failing callback rolls back only itself
				e.ctx.Logger.Warn().
					Str("func", call.FuncName).
					Str("message", cbRes.Message).
					Msg("async callback failed")
			}
		}
	}
}

// deliverCallback reports an async call's outcome to the caller's
// callBack endpoint: first argument is the status code (top-encoded),
// followed by the return data on success or the message on failure.
func (e *Engine) deliverCallback(call *TxInput, callRes *TxResult) (*TxResult, error) {
	caller := e.world.GetAccount(call.From)
	if caller == nil || !caller.IsSmartContract() {
		return nil, nil
	}
	code, ok := e.contracts[caller.CodeName]
	if !ok {
		return nil, nil
	}
	if _, ok := code.endpoints[CallbackFunctionName]; !ok {
		return nil, nil
	}

	args := [][]byte{big.NewInt(int64(callRes.Status)).Bytes()}
	if callRes.Status.IsSuccess() {
		args = append(args, callRes.ReturnData...)
	} else {
		args = append(args, []byte(callRes.Message))
	}

	cbInput := NewTxInput(call.To, call.From).
		WithFunc(CallbackFunctionName, args...).
		WithGas(call.GasLimit, call.GasPrice)
	cbInput.TxHash = call.childTxHash(0)

	return e.runFrame(e.world, cbInput, false)
}

// executeNested runs a child call issued by a running frame. With
// transferFirst set the value moves on the parent's own layer before the
// child frame is entered, so a failing child cannot roll it back.
func (e *Engine) executeNested(parent *frame, call *TxInput, transferFirst bool) (*TxResult, error) {
	if call.GasLimit == 0 {
		call.GasLimit = parent.meter.GasRemaining()
	}
	if err := parent.meter.UseGas(call.GasLimit); err != nil {
		return nil, err
	}

	if transferFirst {
		if err := moveCallValue(parent.world, call); err != nil {
			parent.meter.RefundGas(call.GasLimit)
			return nil, err
		}
	}

	childRes, err := e.runFrame(parent.world, call, transferFirst)
	if err != nil {
		return nil, err
	}
	parent.meter.RefundGas(childRes.GasRemaining)

	if childRes.Status.IsSuccess() {
		parent.logs = append(parent.logs, childRes.Logs...)
		parent.pendingAsync = append(parent.pendingAsync, childRes.asyncCalls...)
		return childRes, nil
	}
	if transferFirst {
		// the transfer stands, the failed execution does not propagate
		return childRes, nil
	}
	return childRes, childRes.err
}

// enqueueAsyncCall defers a call until after the synchronous portion of
// the transaction. The queue is bounded; every enqueue counts against
// the bound, including ones later rolled back with their frame.
func (e *Engine) enqueueAsyncCall(parent *frame, call *TxInput) error {
	e.asyncEnqueued++
	if e.asyncEnqueued > e.ctx.AsyncCallQueueLimit {
		return vmerrors.NewAsyncQueueLimitError(e.ctx.AsyncCallQueueLimit)
	}
	if call.GasLimit == 0 {
		call.GasLimit = parent.meter.GasRemaining()
	}
	parent.pendingAsync = append(parent.pendingAsync, call)
	return nil
}

// runFrame executes one frame against a parent view: enter (snapshot +
// base gas), move the call value unless the caller already did, run the
// endpoint, then commit or roll back.
func (e *Engine) runFrame(parentView *state.World, input *TxInput, transferDone bool) (*TxResult, error) {
	f := newFrame(parentView, input)

	entryCost := e.ctx.GasSchedule.BaseCallCost
	for _, arg := range input.Args {
		entryCost += uint64(len(arg)) * e.ctx.GasSchedule.PerByteOfArgCost
	}
	if err := f.meter.UseGas(entryCost); err != nil {
		return e.failFrame(f, err)
	}

	if !transferDone {
		if err := moveCallValue(f.world, input); err != nil {
			return e.failFrame(f, err)
		}
	}

	f.status = frameRunning

	if input.FuncName == "" {
		// pure value transfer, nothing to execute
		return e.commitFrame(f, parentView)
	}

	handler, err := e.resolveEndpoint(f)
	if err != nil {
		return e.failFrame(f, err)
	}
	if err := handler(&CallContext{engine: e, frame: f}); err != nil {
		return e.failFrame(f, err)
	}
	return e.commitFrame(f, parentView)
}

// resolveEndpoint finds the handler for the frame's receiver + function.
func (e *Engine) resolveEndpoint(f *frame) (Handler, error) {
	account := f.world.GetAccount(f.input.To)
	if account == nil || !account.IsSmartContract() {
		return nil, vmerrors.NewUnknownContractError(f.input.To)
	}
	code, ok := e.contracts[account.CodeName]
	if !ok {
		return nil, vmerrors.NewUnknownContractError(f.input.To)
	}
	handler, ok := code.endpoints[f.input.FuncName]
	if !ok {
		return nil, vmerrors.NewFunctionNotFoundError(f.input.FuncName)
	}
	return handler, nil
}

func (e *Engine) commitFrame(f *frame, parentView *state.World) (*TxResult, error) {
	if err := f.commit(parentView); err != nil {
		return nil, err
	}
	return f.result(), nil
}

// failFrame rolls the frame back and splits the error: engine errors
// become a failed result, failures abort the whole run.
func (e *Engine) failFrame(f *frame, err error) (*TxResult, error) {
	f.rollback()
	engineErr, failure := vmerrors.SplitErrorTypes(err)
	if failure != nil {
		return nil, failure
	}
	e.ctx.Logger.Debug().
		Str("func", f.input.FuncName).
		Err(engineErr).
		Msg("frame rolled back")
	return failedResult(engineErr, f.meter.GasRemaining()), nil
}

// moveCallValue applies the value carried by a call to the given view.
func moveCallValue(view *state.World, input *TxInput) error {
	if input.MoaxValue != nil && input.MoaxValue.Sign() > 0 {
		if err := view.TransferMoax(input.From, input.To, input.MoaxValue); err != nil {
			return err
		}
	}
	for _, payment := range input.DctValues {
		err := view.TransferDct(
			input.From, input.To,
			payment.TokenIdentifier, payment.TokenNonce, payment.Amount)
		if err != nil {
			return err
		}
	}
	return nil
}
