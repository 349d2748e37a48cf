package vm

import (
	"math/big"

	"github.com/dharitri/dvm-go/model/dharitri"
	"github.com/dharitri/dvm-go/vm/state"
)

// frameStatus tracks the life cycle of one call frame:
// Entered → Running → {Committed | RolledBack}.
type frameStatus int

const (
	frameEntered frameStatus = iota
	frameRunning
	frameCommitted
	frameRolledBack
)

func (s frameStatus) String() string {
	switch s {
	case frameEntered:
		return "Entered"
	case frameRunning:
		return "Running"
	case frameCommitted:
		return "Committed"
	case frameRolledBack:
		return "RolledBack"
	default:
		return "Unknown"
	}
}

// frame is one execution of a TxInput: a child world-state view as its
// snapshot/rollback boundary, a gas meter, and the pending logs and
// return data that only become visible to the parent on commit.
type frame struct {
	input      *TxInput
	world      *state.World
	meter      *GasMeter
	callValue  *CallValue
	logs       []TxLog
	returnData [][]byte
	status     frameStatus
	childCalls uint32

	// pendingAsync holds the calls this frame deferred; they reach the
	// per-transaction queue only if the frame commits.
	pendingAsync []*TxInput
}

// newFrame snapshots the parent view and enters a new frame.
func newFrame(parentView *state.World, input *TxInput) *frame {
	f := &frame{
		input:  input,
		world:  parentView.NewChild(),
		meter:  NewGasMeter(input.GasLimit),
		status: frameEntered,
	}
	f.callValue = NewCallValue(f)
	return f
}

// nextChildIndex numbers the calls synthesized under this frame.
func (f *frame) nextChildIndex() uint32 {
	index := f.childCalls
	f.childCalls++
	return index
}

// commit merges the frame's pending deltas into the parent view.
func (f *frame) commit(parentView *state.World) error {
	if err := parentView.Merge(f.world); err != nil {
		return err
	}
	f.status = frameCommitted
	return nil
}

// rollback discards the frame's pending deltas and logs, restoring the
// world to the snapshot taken on entry.
func (f *frame) rollback() {
	f.world.DropDelta()
	f.logs = nil
	f.returnData = nil
	f.pendingAsync = nil
	f.status = frameRolledBack
}

// result captures the frame's outcome after a successful run.
func (f *frame) result() *TxResult {
	return &TxResult{
		Status:       Ok,
		ReturnData:   f.returnData,
		Logs:         f.logs,
		GasRemaining: f.meter.GasRemaining(),
		asyncCalls:   f.pendingAsync,
	}
}

// The frame is the host-side source the call value resolver reads from.

var _ CallValueSource = (*frame)(nil)

// MoaxValue implements CallValueSource. A call carrying DCT transfers
// has no native amount.
func (f *frame) MoaxValue() *big.Int {
	if len(f.input.DctValues) > 0 {
		return big.NewInt(0)
	}
	return f.input.MoaxValue
}

// NumDctTransfers implements CallValueSource.
func (f *frame) NumDctTransfers() int {
	return len(f.input.DctValues)
}

// DctTransfer implements CallValueSource.
func (f *frame) DctTransfer(index int) (dharitri.TokenIdentifier, uint64, *big.Int) {
	payment := f.input.DctValues[index]
	return payment.TokenIdentifier, payment.TokenNonce, payment.Amount
}
