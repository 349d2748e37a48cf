package dharitri

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// AddressLength is the size of an account address in bytes.
const AddressLength = 32

// NumInitCharactersForScAddress is the number of leading zero bytes that
// mark an address as belonging to a smart contract.
const NumInitCharactersForScAddress = 8

// Address represents the 32 byte address of an account.
type Address [AddressLength]byte

// ZeroAddress represents the "zero address" (account that no one owns).
var ZeroAddress = Address{}

// BytesToAddress constructs an address from a byte slice, left-truncating
// or zero-left-padding it to the fixed address length.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// HexToAddress converts a hex string to an Address.
func HexToAddress(h string) Address {
	b, _ := hex.DecodeString(h)
	return BytesToAddress(b)
}

// Bytes returns the byte representation of the address.
func (a Address) Bytes() []byte {
	return a[:]
}

// Hex returns the hex string representation of the address.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

// IsZero checks if this address is the zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// IsSmartContract checks whether the address carries the leading zero
// bytes reserved for smart contract accounts.
func (a Address) IsSmartContract() bool {
	return bytes.Equal(a[:NumInitCharactersForScAddress], make([]byte, NumInitCharactersForScAddress))
}

// MarshalJSON encodes the address as a 0x-prefixed hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", "0x"+a.Hex())), nil
}
