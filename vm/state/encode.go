package state

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/dharitri/dvm-go/model/dharitri"
	vmerrors "github.com/dharitri/dvm-go/vm/errors"
)

// Dump formats. Accounts and their slots are flattened into sorted lists
// so the encoding is deterministic and byte-comparable across runs.
type accountDump struct {
	Address     []byte        `cbor:"1,keyasint"`
	Nonce       uint64        `cbor:"2,keyasint"`
	MoaxBalance []byte        `cbor:"3,keyasint"`
	DctBalances []tokenDump   `cbor:"4,keyasint,omitempty"`
	Storage     []storageDump `cbor:"5,keyasint,omitempty"`
	CodeName    string        `cbor:"6,keyasint,omitempty"`
	Owner       []byte        `cbor:"7,keyasint,omitempty"`
}

type tokenDump struct {
	Identifier string `cbor:"1,keyasint"`
	Nonce      uint64 `cbor:"2,keyasint"`
	Balance    []byte `cbor:"3,keyasint"`
}

type storageDump struct {
	Key   []byte `cbor:"1,keyasint"`
	Value []byte `cbor:"2,keyasint"`
}

var dumpEncMode, _ = cbor.CanonicalEncOptions().EncMode()

// EncodeSnapshot serializes every account visible from the view into a
// canonical CBOR byte string.
func (w *World) EncodeSnapshot() ([]byte, error) {
	dump := make([]accountDump, 0)
	for _, address := range w.Addresses() {
		account := w.GetAccount(address)
		entry := accountDump{
			Address:     account.Address.Bytes(),
			Nonce:       account.Nonce,
			MoaxBalance: account.MoaxBalance.Bytes(),
			CodeName:    account.CodeName,
		}
		if !account.Owner.IsZero() {
			entry.Owner = account.Owner.Bytes()
		}
		for _, key := range account.TokenKeys() {
			entry.DctBalances = append(entry.DctBalances, tokenDump{
				Identifier: string(key.Identifier),
				Nonce:      key.Nonce,
				Balance:    account.DctBalances[key].Bytes(),
			})
		}
		for _, key := range account.StorageKeys() {
			entry.Storage = append(entry.Storage, storageDump{
				Key:   []byte(key),
				Value: account.Storage[key],
			})
		}
		dump = append(dump, entry)
	}

	encoded, err := dumpEncMode.Marshal(dump)
	if err != nil {
		return nil, vmerrors.NewEncodingFailuref("cannot encode world snapshot: %w", err)
	}
	return encoded, nil
}

// DecodeSnapshot rebuilds a root world state from an encoded snapshot.
func DecodeSnapshot(encoded []byte) (*World, error) {
	var dump []accountDump
	if err := cbor.Unmarshal(encoded, &dump); err != nil {
		return nil, vmerrors.NewEncodingFailuref("cannot decode world snapshot: %w", err)
	}

	world := NewWorld()
	for _, entry := range dump {
		account := NewAccount(dharitri.BytesToAddress(entry.Address))
		account.Nonce = entry.Nonce
		account.MoaxBalance = new(big.Int).SetBytes(entry.MoaxBalance)
		account.CodeName = entry.CodeName
		account.Owner = dharitri.BytesToAddress(entry.Owner)
		for _, token := range entry.DctBalances {
			key := TokenKey{
				Identifier: dharitri.TokenIdentifier(token.Identifier),
				Nonce:      token.Nonce,
			}
			account.DctBalances[key] = new(big.Int).SetBytes(token.Balance)
		}
		for _, item := range entry.Storage {
			account.Storage[string(item.Key)] = item.Value
		}
		world.PutAccount(account)
	}
	return world, nil
}
