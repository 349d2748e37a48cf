package vm

import (
	stderrors "errors"
	"strconv"

	vmerrors "github.com/dharitri/dvm-go/vm/errors"
)

// StatusCode is the final status of one executed call.
type StatusCode int

const (
	Ok               StatusCode = 0
	FunctionNotFound StatusCode = 1
	ContractNotFound StatusCode = 3
	UserError        StatusCode = 4
	OutOfFunds       StatusCode = 5
	OutOfGas         StatusCode = 7
	ExecutionFailed  StatusCode = 10
)

func (s StatusCode) String() string {
	return strconv.Itoa(int(s))
}

// IsSuccess returns true for the Ok status.
func (s StatusCode) IsSuccess() bool {
	return s == Ok
}

// TxResult is the outcome of executing one TxInput: status, return data,
// the logs emitted by the frame and everything committed beneath it, and
// the gas left in the envelope.
type TxResult struct {
	Status       StatusCode
	Message      string
	ReturnData   [][]byte
	Logs         []TxLog
	GasRemaining uint64

	// err is the engine error the frame failed with, nil on success.
	err vmerrors.Error
	// asyncCalls are the deferred calls the frame enqueued; they only
	// survive if the frame committed.
	asyncCalls []*TxInput
}

// Err exposes the engine error a failed frame was rolled back with.
func (r *TxResult) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// statusOf maps an engine error to the status code reported for the
// frame that failed with it.
func statusOf(err vmerrors.Error) StatusCode {
	switch err.Code() {
	case vmerrors.ErrCodeSignalledError,
		vmerrors.ErrCodeIncorrectNumDctTransfers,
		vmerrors.ErrCodeFungibleTokenExpected:
		return UserError
	case vmerrors.ErrCodeOutOfGas:
		return OutOfGas
	case vmerrors.ErrCodeInsufficientBalance:
		return OutOfFunds
	case vmerrors.ErrCodeUnknownContract:
		return ContractNotFound
	case vmerrors.ErrCodeFunctionNotFound:
		return FunctionNotFound
	default:
		return ExecutionFailed
	}
}

// failedResult builds the result of a rolled-back frame. Signalled
// errors report the raw contract message, without the code prefix.
func failedResult(err vmerrors.Error, gasRemaining uint64) *TxResult {
	message := err.Error()
	var signalled *vmerrors.SignalledError
	if stderrors.As(err, &signalled) {
		message = signalled.Message()
	}
	return &TxResult{
		Status:       statusOf(err),
		Message:      message,
		GasRemaining: gasRemaining,
		err:          err,
	}
}
