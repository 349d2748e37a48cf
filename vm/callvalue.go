package vm

import (
	"fmt"
	"math/big"

	"github.com/dharitri/dvm-go/model/dharitri"
	vmerrors "github.com/dharitri/dvm-go/vm/errors"
)

// CallValueSource is the host-side protocol the resolver reads from. The
// underlying values belong to the host, so they are queried by count and
// index rather than handed over as a slice.
type CallValueSource interface {
	// MoaxValue returns the native amount of the current call, 0 if the
	// call carried DCT transfers instead.
	MoaxValue() *big.Int

	// NumDctTransfers returns how many DCT transfers the call carries.
	NumDctTransfers() int

	// DctTransfer returns the transfer triple at a zero-based index.
	// Out-of-range access is a programming error.
	DctTransfer(index int) (dharitri.TokenIdentifier, uint64, *big.Int)
}

// CallValue resolves what was sent with the current call. Values are
// fetched from the source once and memoized for the lifetime of the
// frame.
type CallValue struct {
	source    CallValueSource
	moaxValue *big.Int
	transfers []dharitri.DctTokenPayment
	fetched   bool
}

// NewCallValue constructs a resolver over a host source.
func NewCallValue(source CallValueSource) *CallValue {
	return &CallValue{source: source}
}

// MoaxValue retrieves the native call value. It returns 0 in case of a
// DCT transfer (a call cannot carry both).
func (cv *CallValue) MoaxValue() *big.Int {
	if cv.moaxValue == nil {
		cv.moaxValue = new(big.Int).Set(cv.source.MoaxValue())
	}
	return new(big.Int).Set(cv.moaxValue)
}

// AllDctTransfers returns all DCT transfers that accompany this call, in
// submission order. It returns no results if nothing was transferred, or
// just MOAX.
func (cv *CallValue) AllDctTransfers() []dharitri.DctTokenPayment {
	if !cv.fetched {
		count := cv.source.NumDctTransfers()
		cv.transfers = make([]dharitri.DctTokenPayment, 0, count)
		for i := 0; i < count; i++ {
			identifier, nonce, amount := cv.source.DctTransfer(i)
			cv.transfers = append(cv.transfers,
				dharitri.NewDctTokenPayment(identifier, nonce, amount))
		}
		cv.fetched = true
	}
	return cv.transfers
}

// TransferCount returns the number of DCT transfers on this call.
func (cv *CallValue) TransferCount() int {
	return len(cv.AllDctTransfers())
}

// TransferAt returns the transfer at a zero-based index. Indexes outside
// [0, TransferCount()) are a programming error and panic.
func (cv *CallValue) TransferAt(index int) dharitri.DctTokenPayment {
	transfers := cv.AllDctTransfers()
	if index < 0 || index >= len(transfers) {
		panic(fmt.Sprintf("DCT transfer index %d out of range [0, %d)", index, len(transfers)))
	}
	return transfers[index]
}

// MultiDct verifies that the call carries exactly n DCT transfers and
// returns them. Used where a contract statically expects n payments.
func (cv *CallValue) MultiDct(n int) ([]dharitri.DctTokenPayment, error) {
	transfers := cv.AllDctTransfers()
	if len(transfers) != n {
		return nil, vmerrors.NewIncorrectNumDctTransfersError(n, len(transfers))
	}
	return transfers, nil
}

// SingleDct expects precisely one DCT token transfer, fungible or not.
func (cv *CallValue) SingleDct() (dharitri.DctTokenPayment, error) {
	transfers, err := cv.MultiDct(1)
	if err != nil {
		return dharitri.DctTokenPayment{}, err
	}
	return transfers[0], nil
}

// SingleFungibleDct expects precisely one fungible DCT token transfer and
// returns the token identifier and the amount.
func (cv *CallValue) SingleFungibleDct() (dharitri.TokenIdentifier, *big.Int, error) {
	payment, err := cv.SingleDct()
	if err != nil {
		return "", nil, err
	}
	if payment.TokenNonce != 0 {
		return "", nil, vmerrors.NewFungibleTokenExpectedError(payment.TokenNonce)
	}
	return payment.TokenIdentifier, payment.Amount, nil
}

// MoaxOrSingleDct accepts either a MOAX payment or a single DCT token.
//
// It errors if more than one DCT transfer was received. In case no
// transfer of value happened, it returns a payment of 0 MOAX.
func (cv *CallValue) MoaxOrSingleDct() (dharitri.MoaxOrDctTokenPayment, error) {
	transfers := cv.AllDctTransfers()
	switch len(transfers) {
	case 0:
		return dharitri.NewMoaxPayment(cv.MoaxValue()), nil
	case 1:
		return transfers[0].AsMoaxOrDct(), nil
	default:
		return dharitri.MoaxOrDctTokenPayment{},
			vmerrors.NewIncorrectNumDctTransfersError(-1, len(transfers))
	}
}

// MoaxOrSingleFungibleDct works like MoaxOrSingleDct, but additionally
// checks the nonce to be 0 and returns just identifier and amount.
func (cv *CallValue) MoaxOrSingleFungibleDct() (dharitri.MoaxOrDctTokenIdentifier, *big.Int, error) {
	payment, err := cv.MoaxOrSingleDct()
	if err != nil {
		return dharitri.MoaxOrDctTokenIdentifier{}, nil, err
	}
	if payment.TokenNonce != 0 {
		return dharitri.MoaxOrDctTokenIdentifier{}, nil,
			vmerrors.NewFungibleTokenExpectedError(payment.TokenNonce)
	}
	return payment.TokenIdentifier, payment.Amount, nil
}

// CheckNotPayable errors if the call carries any value, native or DCT.
func (cv *CallValue) CheckNotPayable() error {
	if cv.MoaxValue().Sign() > 0 {
		return vmerrors.NewSignalledError("function does not accept MOAX payment")
	}
	if cv.TransferCount() > 0 {
		return vmerrors.NewSignalledError("function does not accept DCT payment")
	}
	return nil
}
