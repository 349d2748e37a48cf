package errors

import (
	"errors"
	"fmt"
	"math/big"
)

// Error is the interface implemented by all non-fatal engine errors.
// A transaction frame hitting one of these is rolled back; the engine
// itself remains usable.
type Error interface {
	error
	Code() ErrorCode
}

// Failure is the interface for fatal errors. A Failure means the engine
// state itself can no longer be trusted and the whole run must stop.
type Failure interface {
	error
	FailureCode() FailureCode
}

// IncorrectNumDctTransfersError indicates that a call carried a different
// number of DCT transfers than the contract statically expects.
type IncorrectNumDctTransfersError struct {
	expected int
	actual   int
}

// NewIncorrectNumDctTransfersError constructs a new IncorrectNumDctTransfersError.
// An expected count below zero means "at most one".
func NewIncorrectNumDctTransfersError(expected, actual int) *IncorrectNumDctTransfersError {
	return &IncorrectNumDctTransfersError{expected: expected, actual: actual}
}

func (e *IncorrectNumDctTransfersError) Error() string {
	if e.expected < 0 {
		return fmt.Sprintf("%s incorrect number of DCT transfers: expected at most 1, got %d",
			e.Code(), e.actual)
	}
	return fmt.Sprintf("%s incorrect number of DCT transfers: expected %d, got %d",
		e.Code(), e.expected, e.actual)
}

// Code returns the error code for this error.
func (e *IncorrectNumDctTransfersError) Code() ErrorCode {
	return ErrCodeIncorrectNumDctTransfers
}

// IsIncorrectNumDctTransfersError returns true if error has this type.
func IsIncorrectNumDctTransfersError(err error) bool {
	var t *IncorrectNumDctTransfersError
	return errors.As(err, &t)
}

// FungibleTokenExpectedError indicates a non-fungible or semi-fungible
// token was supplied on a fungible-only path.
type FungibleTokenExpectedError struct {
	nonce uint64
}

// NewFungibleTokenExpectedError constructs a new FungibleTokenExpectedError.
func NewFungibleTokenExpectedError(nonce uint64) *FungibleTokenExpectedError {
	return &FungibleTokenExpectedError{nonce: nonce}
}

func (e *FungibleTokenExpectedError) Error() string {
	return fmt.Sprintf("%s fungible DCT token expected, got nonce %d", e.Code(), e.nonce)
}

// Code returns the error code for this error.
func (e *FungibleTokenExpectedError) Code() ErrorCode {
	return ErrCodeFungibleTokenExpected
}

// IsFungibleTokenExpectedError returns true if error has this type.
func IsFungibleTokenExpectedError(err error) bool {
	var t *FungibleTokenExpectedError
	return errors.As(err, &t)
}

// SignalledError is raised by contract logic through the error API.
type SignalledError struct {
	message string
}

// NewSignalledError constructs a new SignalledError.
func NewSignalledError(message string) *SignalledError {
	return &SignalledError{message: message}
}

func (e *SignalledError) Error() string {
	return fmt.Sprintf("%s error signalled by smartcontract: %s", e.Code(), e.message)
}

// Message returns the raw message the contract signalled.
func (e *SignalledError) Message() string {
	return e.message
}

// Code returns the error code for this error.
func (e *SignalledError) Code() ErrorCode {
	return ErrCodeSignalledError
}

// IsSignalledError returns true if error has this type.
func IsSignalledError(err error) bool {
	var t *SignalledError
	return errors.As(err, &t)
}

// OutOfGasError indicates the gas limit was exhausted mid-frame.
type OutOfGasError struct {
	limit uint64
	used  uint64
}

// NewOutOfGasError constructs a new OutOfGasError.
func NewOutOfGasError(used, limit uint64) *OutOfGasError {
	return &OutOfGasError{limit: limit, used: used}
}

func (e *OutOfGasError) Error() string {
	return fmt.Sprintf("%s out of gas: used %d, limit %d", e.Code(), e.used, e.limit)
}

// Code returns the error code for this error.
func (e *OutOfGasError) Code() ErrorCode {
	return ErrCodeOutOfGas
}

// IsOutOfGasError returns true if error has this type.
func IsOutOfGasError(err error) bool {
	var t *OutOfGasError
	return errors.As(err, &t)
}

// InsufficientBalanceError indicates a value transfer could not be
// covered by the sender's balance.
type InsufficientBalanceError struct {
	address fmt.Stringer
	token   string
	needed  *big.Int
	balance *big.Int
}

// NewInsufficientBalanceError constructs a new InsufficientBalanceError.
func NewInsufficientBalanceError(address fmt.Stringer, token string, needed, balance *big.Int) *InsufficientBalanceError {
	return &InsufficientBalanceError{
		address: address,
		token:   token,
		needed:  new(big.Int).Set(needed),
		balance: new(big.Int).Set(balance),
	}
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s insufficient %s balance for account %s: needed %s, available %s",
		e.Code(), e.token, e.address, e.needed, e.balance)
}

// Code returns the error code for this error.
func (e *InsufficientBalanceError) Code() ErrorCode {
	return ErrCodeInsufficientBalance
}

// IsInsufficientBalanceError returns true if error has this type.
func IsInsufficientBalanceError(err error) bool {
	var t *InsufficientBalanceError
	return errors.As(err, &t)
}

// UnknownContractError indicates the receiver account has no registered
// contract code.
type UnknownContractError struct {
	address fmt.Stringer
}

// NewUnknownContractError constructs a new UnknownContractError.
func NewUnknownContractError(address fmt.Stringer) *UnknownContractError {
	return &UnknownContractError{address: address}
}

func (e *UnknownContractError) Error() string {
	return fmt.Sprintf("%s account %s is not a smart contract", e.Code(), e.address)
}

// Code returns the error code for this error.
func (e *UnknownContractError) Code() ErrorCode {
	return ErrCodeUnknownContract
}

// IsUnknownContractError returns true if error has this type.
func IsUnknownContractError(err error) bool {
	var t *UnknownContractError
	return errors.As(err, &t)
}

// FunctionNotFoundError indicates the called endpoint does not exist on
// the receiver contract.
type FunctionNotFoundError struct {
	function string
}

// NewFunctionNotFoundError constructs a new FunctionNotFoundError.
func NewFunctionNotFoundError(function string) *FunctionNotFoundError {
	return &FunctionNotFoundError{function: function}
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("%s invalid function (not found): %s", e.Code(), e.function)
}

// Code returns the error code for this error.
func (e *FunctionNotFoundError) Code() ErrorCode {
	return ErrCodeFunctionNotFound
}

// IsFunctionNotFoundError returns true if error has this type.
func IsFunctionNotFoundError(err error) bool {
	var t *FunctionNotFoundError
	return errors.As(err, &t)
}

// AsyncQueueLimitError indicates the per-transaction async call queue
// exceeded its configured limit.
type AsyncQueueLimitError struct {
	limit int
}

// NewAsyncQueueLimitError constructs a new AsyncQueueLimitError.
func NewAsyncQueueLimitError(limit int) *AsyncQueueLimitError {
	return &AsyncQueueLimitError{limit: limit}
}

func (e *AsyncQueueLimitError) Error() string {
	return fmt.Sprintf("%s async call queue limit (%d) exceeded", e.Code(), e.limit)
}

// Code returns the error code for this error.
func (e *AsyncQueueLimitError) Code() ErrorCode {
	return ErrCodeAsyncQueueLimit
}

// IsAsyncQueueLimitError returns true if error has this type.
func IsAsyncQueueLimitError(err error) bool {
	var t *AsyncQueueLimitError
	return errors.As(err, &t)
}

// InterpretationError indicates a fixture field could not be resolved to
// a typed value. It aborts scenario loading before any execution.
type InterpretationError struct {
	field string
	err   error
}

// NewInterpretationErrorf formats and returns a new InterpretationError.
func NewInterpretationErrorf(field string, msg string, args ...interface{}) *InterpretationError {
	return &InterpretationError{field: field, err: fmt.Errorf(msg, args...)}
}

func (e *InterpretationError) Error() string {
	return fmt.Sprintf("%s cannot interpret field %q: %s", e.Code(), e.field, e.err)
}

// Code returns the error code for this error.
func (e *InterpretationError) Code() ErrorCode {
	return ErrCodeInterpretation
}

// Unwrap returns the wrapped err.
func (e *InterpretationError) Unwrap() error {
	return e.err
}

// IsInterpretationError returns true if error has this type.
func IsInterpretationError(err error) bool {
	var t *InterpretationError
	return errors.As(err, &t)
}
