package state

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/dharitri/dvm-go/model/dharitri"
	vmerrors "github.com/dharitri/dvm-go/vm/errors"
)

// World is the in-memory mock of the chain ledger: a mapping from address
// to account, layered into views.
//
// A child view records all writes as copy-on-write account deltas and
// reads through to its parent. Committing a frame merges the delta into
// the parent; rolling back drops it. This is the sole isolation
// mechanism: execution is single threaded and only the view of the
// currently active frame is ever mutated.
type World struct {
	parent *World
	delta  map[dharitri.Address]*Account
}

// NewWorld constructs an empty root world state.
func NewWorld() *World {
	return &World{
		delta: make(map[dharitri.Address]*Account),
	}
}

// NewChild generates a new child view with the current view as its base.
func (w *World) NewChild() *World {
	return &World{
		parent: w,
		delta:  make(map[dharitri.Address]*Account),
	}
}

// Merge moves the child's delta into this view. The child must have been
// created from this view; anything else means frames were committed out
// of call-stack order.
func (w *World) Merge(child *World) error {
	if child.parent != w {
		return vmerrors.NewStateMergeFailure(
			fmt.Errorf("child view was not created from this view"))
	}
	for addr, account := range child.delta {
		w.delta[addr] = account
	}
	return nil
}

// DropDelta drops all the delta changes of this view.
func (w *World) DropDelta() {
	w.delta = make(map[dharitri.Address]*Account)
}

// GetAccount returns the account at the given address, or nil if none
// exists. The returned account must not be mutated; use the accessor
// methods instead.
func (w *World) GetAccount(address dharitri.Address) *Account {
	for v := w; v != nil; v = v.parent {
		if account, ok := v.delta[address]; ok {
			return account
		}
	}
	return nil
}

// AccountExists checks whether any layer holds the address.
func (w *World) AccountExists(address dharitri.Address) bool {
	return w.GetAccount(address) != nil
}

// getOrCreateForUpdate returns a mutable copy of the account owned by
// this view, creating the account if it does not exist yet.
func (w *World) getOrCreateForUpdate(address dharitri.Address) *Account {
	if account, ok := w.delta[address]; ok {
		return account
	}
	account := w.GetAccount(address)
	if account == nil {
		account = NewAccount(address)
	} else {
		account = account.Copy()
	}
	w.delta[address] = account
	return account
}

// PutAccount installs a fully specified account, replacing any previous
// state for that address. Used by scenario setState steps.
func (w *World) PutAccount(account *Account) {
	w.delta[account.Address] = account
}

// MoaxBalance returns the native balance of the account, zero for
// missing accounts.
func (w *World) MoaxBalance(address dharitri.Address) *big.Int {
	if account := w.GetAccount(address); account != nil {
		return new(big.Int).Set(account.MoaxBalance)
	}
	return big.NewInt(0)
}

// DctBalance returns one DCT balance slot, zero for missing accounts.
func (w *World) DctBalance(address dharitri.Address, identifier dharitri.TokenIdentifier, nonce uint64) *big.Int {
	if account := w.GetAccount(address); account != nil {
		return account.DctBalance(identifier, nonce)
	}
	return big.NewInt(0)
}

// IncreaseNonce bumps the account nonce, creating the account if needed.
func (w *World) IncreaseNonce(address dharitri.Address) {
	account := w.getOrCreateForUpdate(address)
	account.Nonce++
}

// TransferMoax moves native value between accounts. A transfer that the
// sender cannot cover is an execution error.
func (w *World) TransferMoax(from, to dharitri.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	sender := w.getOrCreateForUpdate(from)
	if sender.MoaxBalance.Cmp(amount) < 0 {
		return vmerrors.NewInsufficientBalanceError(from, "MOAX", amount, sender.MoaxBalance)
	}
	sender.MoaxBalance.Sub(sender.MoaxBalance, amount)
	receiver := w.getOrCreateForUpdate(to)
	receiver.MoaxBalance.Add(receiver.MoaxBalance, amount)
	return nil
}

// TransferDct moves one DCT balance slot between accounts.
func (w *World) TransferDct(
	from, to dharitri.Address,
	identifier dharitri.TokenIdentifier,
	nonce uint64,
	amount *big.Int,
) error {
	if amount.Sign() == 0 {
		return nil
	}
	key := TokenKey{Identifier: identifier, Nonce: nonce}
	sender := w.getOrCreateForUpdate(from)
	balance, ok := sender.DctBalances[key]
	if !ok || balance.Cmp(amount) < 0 {
		if balance == nil {
			balance = big.NewInt(0)
		}
		return vmerrors.NewInsufficientBalanceError(from, string(identifier), amount, balance)
	}
	balance.Sub(balance, amount)
	if balance.Sign() == 0 {
		delete(sender.DctBalances, key)
	}
	receiver := w.getOrCreateForUpdate(to)
	if current, ok := receiver.DctBalances[key]; ok {
		current.Add(current, amount)
	} else {
		receiver.DctBalances[key] = new(big.Int).Set(amount)
	}
	return nil
}

// StorageGet reads one storage value, nil for missing keys or accounts.
func (w *World) StorageGet(address dharitri.Address, key []byte) []byte {
	account := w.GetAccount(address)
	if account == nil {
		return nil
	}
	return append([]byte(nil), account.Storage[string(key)]...)
}

// StorageSet writes one storage value. Empty values delete the key, so
// cleared storage matches never-written storage byte for byte.
func (w *World) StorageSet(address dharitri.Address, key, value []byte) {
	account := w.getOrCreateForUpdate(address)
	if len(value) == 0 {
		delete(account.Storage, string(key))
		return
	}
	account.Storage[string(key)] = append([]byte(nil), value...)
}

// Addresses returns every address visible from this view, sorted.
func (w *World) Addresses() []dharitri.Address {
	set := make(map[dharitri.Address]struct{})
	for v := w; v != nil; v = v.parent {
		for addr := range v.delta {
			set[addr] = struct{}{}
		}
	}
	addresses := make([]dharitri.Address, 0, len(set))
	for addr := range set {
		addresses = append(addresses, addr)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return addresses[i].Hex() < addresses[j].Hex()
	})
	return addresses
}
