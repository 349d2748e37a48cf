package state

import (
	"math/big"
	"sort"

	"github.com/dharitri/dvm-go/model/dharitri"
)

// TokenKey identifies one DCT balance slot of an account: a token
// identifier plus a nonce (0 for fungible tokens).
type TokenKey struct {
	Identifier dharitri.TokenIdentifier
	Nonce      uint64
}

// Account is the in-memory mock of one ledger account.
type Account struct {
	Address     dharitri.Address
	Nonce       uint64
	MoaxBalance *big.Int
	DctBalances map[TokenKey]*big.Int
	Storage     map[string][]byte
	CodeName    string
	Owner       dharitri.Address
}

// NewAccount constructs an empty account at the given address.
func NewAccount(address dharitri.Address) *Account {
	return &Account{
		Address:     address,
		MoaxBalance: big.NewInt(0),
		DctBalances: make(map[TokenKey]*big.Int),
		Storage:     make(map[string][]byte),
	}
}

// Copy returns a deep copy of the account. Views copy accounts on first
// write so rollback never observes aliased mutations.
func (a *Account) Copy() *Account {
	c := &Account{
		Address:     a.Address,
		Nonce:       a.Nonce,
		MoaxBalance: new(big.Int).Set(a.MoaxBalance),
		DctBalances: make(map[TokenKey]*big.Int, len(a.DctBalances)),
		Storage:     make(map[string][]byte, len(a.Storage)),
		CodeName:    a.CodeName,
		Owner:       a.Owner,
	}
	for k, v := range a.DctBalances {
		c.DctBalances[k] = new(big.Int).Set(v)
	}
	for k, v := range a.Storage {
		c.Storage[k] = append([]byte(nil), v...)
	}
	return c
}

// DctBalance returns the balance for one token slot, zero if absent.
func (a *Account) DctBalance(identifier dharitri.TokenIdentifier, nonce uint64) *big.Int {
	if v, ok := a.DctBalances[TokenKey{Identifier: identifier, Nonce: nonce}]; ok {
		return new(big.Int).Set(v)
	}
	return big.NewInt(0)
}

// StorageKeys returns the account's storage keys in sorted order.
func (a *Account) StorageKeys() []string {
	keys := make([]string, 0, len(a.Storage))
	for k := range a.Storage {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TokenKeys returns the account's DCT balance slots in sorted order.
func (a *Account) TokenKeys() []TokenKey {
	keys := make([]TokenKey, 0, len(a.DctBalances))
	for k := range a.DctBalances {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Identifier != keys[j].Identifier {
			return keys[i].Identifier < keys[j].Identifier
		}
		return keys[i].Nonce < keys[j].Nonce
	})
	return keys
}

// IsSmartContract reports whether the account has contract code attached.
func (a *Account) IsSmartContract() bool {
	return a.CodeName != ""
}
