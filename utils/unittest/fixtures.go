package unittest

import (
	"fmt"
	"math/big"
	"math/rand"

	"github.com/dharitri/dvm-go/model/dharitri"
	"github.com/dharitri/dvm-go/vm/state"
)

const hexDigits = "0123456789abcdef"

// AddressFixture returns a random user account address.
func AddressFixture() dharitri.Address {
	var a dharitri.Address
	_, _ = rand.Read(a[:])
	// keep the contract marker bytes clear of user addresses
	a[0] |= 1
	return a
}

// ScAddressFixture returns a random smart contract address, with the
// leading bytes zeroed the way the chain marks contract accounts.
func ScAddressFixture() dharitri.Address {
	a := AddressFixture()
	for i := 0; i < dharitri.NumInitCharactersForScAddress; i++ {
		a[i] = 0
	}
	return a
}

// TokenIdentifierFixture returns a random valid DCT token identifier.
func TokenIdentifierFixture() dharitri.TokenIdentifier {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = hexDigits[rand.Intn(len(hexDigits))]
	}
	return dharitri.TokenIdentifier(fmt.Sprintf("TOK-%s", suffix))
}

// DctPaymentFixture returns a fungible payment of the given amount.
func DctPaymentFixture(identifier dharitri.TokenIdentifier, amount int64) dharitri.DctTokenPayment {
	return dharitri.NewDctTokenPayment(identifier, 0, big.NewInt(amount))
}

// FundedAccountFixture returns an account holding the given MOAX amount.
func FundedAccountFixture(address dharitri.Address, moax int64) *state.Account {
	account := state.NewAccount(address)
	account.MoaxBalance = big.NewInt(moax)
	return account
}

// ContractAccountFixture returns an account carrying contract code.
func ContractAccountFixture(address dharitri.Address, codeName string) *state.Account {
	account := state.NewAccount(address)
	account.CodeName = codeName
	return account
}
