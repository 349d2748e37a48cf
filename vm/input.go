package vm

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"github.com/dharitri/dvm-go/model/dharitri"
)

// TxInput is the canonical representation of one contract call: who calls
// whom, the value carried along, the endpoint and its arguments, and the
// gas envelope.
//
// One instance exists per call frame. It is immutable once execution
// begins; nested calls synthesize fresh inputs.
type TxInput struct {
	From      dharitri.Address
	To        dharitri.Address
	MoaxValue *big.Int
	DctValues []dharitri.DctTokenPayment
	FuncName  string
	Args      [][]byte
	GasLimit  uint64
	GasPrice  uint64
	TxHash    dharitri.TxHash
}

// NewTxInput constructs an empty input between two addresses.
func NewTxInput(from, to dharitri.Address) *TxInput {
	return &TxInput{
		From:      from,
		To:        to,
		MoaxValue: big.NewInt(0),
	}
}

// WithFunc sets the endpoint and arguments.
func (in *TxInput) WithFunc(name string, args ...[]byte) *TxInput {
	in.FuncName = name
	in.Args = args
	return in
}

// WithMoaxValue sets the native amount carried by the call.
func (in *TxInput) WithMoaxValue(value *big.Int) *TxInput {
	in.MoaxValue = new(big.Int).Set(value)
	return in
}

// WithDctValue appends one DCT transfer to the call.
func (in *TxInput) WithDctValue(identifier dharitri.TokenIdentifier, nonce uint64, amount *big.Int) *TxInput {
	in.DctValues = append(in.DctValues, dharitri.NewDctTokenPayment(identifier, nonce, amount))
	return in
}

// WithGas sets the gas envelope.
func (in *TxInput) WithGas(gasLimit, gasPrice uint64) *TxInput {
	in.GasLimit = gasLimit
	in.GasPrice = gasPrice
	return in
}

// childTxHash derives the hash of the index-th call synthesized under
// this transaction, keeping nested hashes deterministic.
func (in *TxInput) childTxHash(index uint32) dharitri.TxHash {
	seed := make([]byte, dharitri.HashLength+4)
	copy(seed, in.TxHash.Bytes())
	binary.BigEndian.PutUint32(seed[dharitri.HashLength:], index)
	return dharitri.ComputeTxHash(seed)
}

func (in *TxInput) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "TxInput{func: %s, value: %s", in.FuncName, in.MoaxValue)
	for _, payment := range in.DctValues {
		fmt.Fprintf(&sb, ", dct: %s", payment)
	}
	fmt.Fprintf(&sb, ", from: 0x%s, to: 0x%s}", in.From, in.To)
	return sb.String()
}
