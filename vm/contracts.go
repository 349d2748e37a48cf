package vm

import (
	"math/big"

	"github.com/dharitri/dvm-go/model/dharitri"
	vmerrors "github.com/dharitri/dvm-go/vm/errors"
)

// CallbackFunctionName is the endpoint that receives the results of
// async calls issued by a contract.
const CallbackFunctionName = "callBack"

// A Handler implements one contract endpoint. Returning a non-nil error
// rolls the frame back; returning nil commits it.
type Handler func(host *CallContext) error

// contractCode is a registered contract: its endpoints by name. Accounts
// reference contracts by code name, so many accounts can share one
// implementation.
type contractCode struct {
	name      string
	endpoints map[string]Handler
}

// CallContext is the capability surface handed to contract code: call
// introspection, value resolution, storage, logging, and nested calls.
// It is valid only for the duration of the frame that created it.
type CallContext struct {
	engine *Engine
	frame  *frame
}

// Caller returns the address that issued the current call.
func (c *CallContext) Caller() dharitri.Address {
	return c.frame.input.From
}

// OwnAddress returns the address of the executing contract.
func (c *CallContext) OwnAddress() dharitri.Address {
	return c.frame.input.To
}

// Arguments returns the ordered argument list of the current call.
func (c *CallContext) Arguments() [][]byte {
	return c.frame.input.Args
}

// Argument returns the argument at the given index, nil if absent.
func (c *CallContext) Argument(index int) []byte {
	if index < 0 || index >= len(c.frame.input.Args) {
		return nil
	}
	return c.frame.input.Args[index]
}

// CallValue returns the value transfer resolver for the current call.
func (c *CallContext) CallValue() *CallValue {
	return c.frame.callValue
}

// GasLeft returns the unspent gas of the current frame.
func (c *CallContext) GasLeft() uint64 {
	return c.frame.meter.GasRemaining()
}

// UseGas charges declared contract costs against the frame's meter.
func (c *CallContext) UseGas(amount uint64) error {
	return c.frame.meter.UseGas(amount)
}

// SignalError builds the error a contract returns to abort its frame.
func (c *CallContext) SignalError(message string) error {
	return vmerrors.NewSignalledError(message)
}

// StorageGet reads from the executing contract's storage.
func (c *CallContext) StorageGet(key []byte) []byte {
	return c.frame.world.StorageGet(c.OwnAddress(), key)
}

// StorageSet writes to the executing contract's storage.
func (c *CallContext) StorageSet(key, value []byte) {
	c.frame.world.StorageSet(c.OwnAddress(), key, value)
}

// MoaxBalance returns the native balance of an account as currently
// visible from this frame.
func (c *CallContext) MoaxBalance(address dharitri.Address) *big.Int {
	return c.frame.world.MoaxBalance(address)
}

// DctBalance returns a DCT balance slot as currently visible from this
// frame.
func (c *CallContext) DctBalance(
	address dharitri.Address,
	identifier dharitri.TokenIdentifier,
	nonce uint64,
) *big.Int {
	return c.frame.world.DctBalance(address, identifier, nonce)
}

// Finish appends one value to the frame's return data.
func (c *CallContext) Finish(data []byte) {
	c.frame.returnData = append(c.frame.returnData, append([]byte(nil), data...))
}

// LogEvent emits one event log from the executing contract.
func (c *CallContext) LogEvent(endpoint []byte, topics [][]byte, data []byte) {
	c.frame.logs = append(c.frame.logs, TxLog{
		Address:  c.OwnAddress(),
		Endpoint: append([]byte(nil), endpoint...),
		Topics:   topics,
		Data:     append([]byte(nil), data...),
	})
}

// ExecuteOnDestContext runs a synchronous nested call. The child frame
// completes before this function returns. On success its state deltas
// and logs are merged into the current frame and its result is returned.
// On failure the child is rolled back and the error is returned; the
// default behavior is to propagate it, a contract that wants the
// recoverable variant inspects the error and carries on.
func (c *CallContext) ExecuteOnDestContext(call *TxInput) (*TxResult, error) {
	return c.engine.executeNested(c.frame, call, false)
}

// TransferExecute moves value unconditionally and then runs the call if
// the destination is a contract. Unlike a synchronous call, a failing
// child does not take the transferred value down with it.
func (c *CallContext) TransferExecute(call *TxInput) (*TxResult, error) {
	return c.engine.executeNested(c.frame, call, true)
}

// AsyncCall queues a call for execution after the synchronous portion of
// the current transaction completes. The result is delivered to this
// contract's callBack endpoint in a second execution pass.
func (c *CallContext) AsyncCall(call *TxInput) error {
	return c.engine.enqueueAsyncCall(c.frame, call)
}

// NestedCall starts building a nested call input from this contract to
// the given destination, with a deterministic derived tx hash.
func (c *CallContext) NestedCall(to dharitri.Address) *TxInput {
	input := NewTxInput(c.OwnAddress(), to)
	input.TxHash = c.frame.input.childTxHash(c.frame.nextChildIndex())
	return input
}
