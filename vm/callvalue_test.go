package vm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharitri/dvm-go/model/dharitri"
	vmerrors "github.com/dharitri/dvm-go/vm/errors"
	"github.com/dharitri/dvm-go/vm/state"
)

func callValueForInput(input *TxInput) *CallValue {
	f := newFrame(state.NewWorld(), input)
	return f.callValue
}

func inputWithTransfers(payments ...dharitri.DctTokenPayment) *TxInput {
	input := NewTxInput(dharitri.HexToAddress("01"), dharitri.HexToAddress("02"))
	input.DctValues = payments
	return input
}

func TestCallValueTransferEnumeration(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5} {
		payments := make([]dharitri.DctTokenPayment, 0, n)
		for i := 0; i < n; i++ {
			payments = append(payments, dharitri.NewDctTokenPayment(
				dharitri.TokenIdentifier("TOK-6258d2"), uint64(i), big.NewInt(int64(i+1))))
		}
		cv := callValueForInput(inputWithTransfers(payments...))

		require.Equal(t, n, cv.TransferCount())
		for i := 0; i < n; i++ {
			payment := cv.TransferAt(i)
			assert.Equal(t, dharitri.TokenIdentifier("TOK-6258d2"), payment.TokenIdentifier)
			assert.Equal(t, uint64(i), payment.TokenNonce)
			assert.Equal(t, big.NewInt(int64(i+1)), payment.Amount)
		}
	}
}

func TestCallValueTransferAtOutOfRange(t *testing.T) {
	cv := callValueForInput(inputWithTransfers(
		dharitri.NewDctTokenPayment("TOK-6258d2", 0, big.NewInt(1))))
	require.Panics(t, func() { cv.TransferAt(1) })
	require.Panics(t, func() { cv.TransferAt(-1) })
}

func TestCallValueMoaxValue(t *testing.T) {
	t.Run("moax only", func(t *testing.T) {
		input := inputWithTransfers().WithMoaxValue(big.NewInt(100))
		cv := callValueForInput(input)
		assert.Equal(t, big.NewInt(100), cv.MoaxValue())
		assert.Empty(t, cv.AllDctTransfers())
	})

	t.Run("moax reads zero on a multi token transfer", func(t *testing.T) {
		input := inputWithTransfers(
			dharitri.NewDctTokenPayment("TOK-6258d2", 0, big.NewInt(5)))
		input.MoaxValue = big.NewInt(100)
		cv := callValueForInput(input)
		assert.Equal(t, big.NewInt(0), cv.MoaxValue())
	})

	t.Run("memoized value is isolated from callers", func(t *testing.T) {
		cv := callValueForInput(inputWithTransfers().WithMoaxValue(big.NewInt(7)))
		cv.MoaxValue().SetInt64(999)
		assert.Equal(t, big.NewInt(7), cv.MoaxValue())
	})
}

func TestCallValueMultiDct(t *testing.T) {
	cv := callValueForInput(inputWithTransfers(
		dharitri.NewDctTokenPayment("AAA-6258d2", 0, big.NewInt(1)),
		dharitri.NewDctTokenPayment("BBB-6258d2", 0, big.NewInt(2)),
	))

	transfers, err := cv.MultiDct(2)
	require.NoError(t, err)
	require.Len(t, transfers, 2)

	_, err = cv.MultiDct(3)
	require.True(t, vmerrors.IsIncorrectNumDctTransfersError(err))

	_, err = cv.SingleDct()
	require.True(t, vmerrors.IsIncorrectNumDctTransfersError(err))
}

func TestCallValueSingleFungibleDct(t *testing.T) {
	t.Run("fungible", func(t *testing.T) {
		cv := callValueForInput(inputWithTransfers(
			dharitri.NewDctTokenPayment("AAA-6258d2", 0, big.NewInt(9))))
		identifier, amount, err := cv.SingleFungibleDct()
		require.NoError(t, err)
		assert.Equal(t, dharitri.TokenIdentifier("AAA-6258d2"), identifier)
		assert.Equal(t, big.NewInt(9), amount)
	})

	t.Run("non fungible rejected", func(t *testing.T) {
		cv := callValueForInput(inputWithTransfers(
			dharitri.NewDctTokenPayment("NFT-6258d2", 3, big.NewInt(1))))
		_, _, err := cv.SingleFungibleDct()
		require.True(t, vmerrors.IsFungibleTokenExpectedError(err))
	})
}

func TestCallValueMoaxOrSingleDct(t *testing.T) {
	t.Run("no transfers resolves to moax", func(t *testing.T) {
		cv := callValueForInput(inputWithTransfers().WithMoaxValue(big.NewInt(42)))
		payment, err := cv.MoaxOrSingleDct()
		require.NoError(t, err)
		assert.True(t, payment.TokenIdentifier.IsMoax())
		assert.Equal(t, big.NewInt(42), payment.Amount)
	})

	t.Run("no value at all resolves to zero moax", func(t *testing.T) {
		cv := callValueForInput(inputWithTransfers())
		payment, err := cv.MoaxOrSingleDct()
		require.NoError(t, err)
		assert.True(t, payment.TokenIdentifier.IsMoax())
		assert.Equal(t, big.NewInt(0), payment.Amount)
	})

	t.Run("single transfer resolves to that transfer", func(t *testing.T) {
		cv := callValueForInput(inputWithTransfers(
			dharitri.NewDctTokenPayment("AAA-6258d2", 2, big.NewInt(5))))
		payment, err := cv.MoaxOrSingleDct()
		require.NoError(t, err)
		assert.True(t, payment.TokenIdentifier.IsDct())
		assert.Equal(t, uint64(2), payment.TokenNonce)
		assert.Equal(t, big.NewInt(5), payment.Amount)
	})

	t.Run("two transfers fail", func(t *testing.T) {
		cv := callValueForInput(inputWithTransfers(
			dharitri.NewDctTokenPayment("AAA-6258d2", 0, big.NewInt(5)),
			dharitri.NewDctTokenPayment("BBB-6258d2", 0, big.NewInt(7)),
		))
		_, err := cv.MoaxOrSingleDct()
		require.True(t, vmerrors.IsIncorrectNumDctTransfersError(err))
	})

	t.Run("fungible variant checks the nonce", func(t *testing.T) {
		cv := callValueForInput(inputWithTransfers(
			dharitri.NewDctTokenPayment("NFT-6258d2", 1, big.NewInt(1))))
		_, _, err := cv.MoaxOrSingleFungibleDct()
		require.True(t, vmerrors.IsFungibleTokenExpectedError(err))
	})
}

func TestCheckNotPayable(t *testing.T) {
	require.NoError(t, callValueForInput(inputWithTransfers()).CheckNotPayable())

	err := callValueForInput(inputWithTransfers().WithMoaxValue(big.NewInt(1))).CheckNotPayable()
	require.True(t, vmerrors.IsSignalledError(err))

	err = callValueForInput(inputWithTransfers(
		dharitri.NewDctTokenPayment("AAA-6258d2", 0, big.NewInt(1)))).CheckNotPayable()
	require.True(t, vmerrors.IsSignalledError(err))
}
