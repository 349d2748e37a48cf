package errors

import "fmt"

type ErrorCode uint16

func (ec ErrorCode) String() string {
	return fmt.Sprintf("[Error Code: %d]", ec)
}

const (
	// call value resolution errors 1000 - 1049
	ErrCodeIncorrectNumDctTransfers ErrorCode = 1000
	ErrCodeFungibleTokenExpected    ErrorCode = 1001

	// execution errors 1050 - 1099
	ErrCodeSignalledError      ErrorCode = 1050
	ErrCodeOutOfGas            ErrorCode = 1051
	ErrCodeInsufficientBalance ErrorCode = 1052
	ErrCodeUnknownContract     ErrorCode = 1053
	ErrCodeFunctionNotFound    ErrorCode = 1054
	ErrCodeAsyncQueueLimit     ErrorCode = 1055

	// fixture interpretation errors 1100 - 1149
	ErrCodeInterpretation ErrorCode = 1100
)

type FailureCode uint16

func (fc FailureCode) String() string {
	return fmt.Sprintf("[Failure Code: %d]", fc)
}

const (
	FailureCodeUnknownFailure    FailureCode = 2000
	FailureCodeStateMergeFailure FailureCode = 2001
	FailureCodeEncodingFailure   FailureCode = 2002
)
