package dharitri

import (
	"fmt"
	"math/big"
)

// DctTokenPayment is one DCT transfer accompanying a contract call:
// a token identifier, a nonce (0 for fungible tokens) and an amount.
//
// A zero-amount entry does not qualify as a transfer and is never present
// in a transfer list.
type DctTokenPayment struct {
	TokenIdentifier TokenIdentifier
	TokenNonce      uint64
	Amount          *big.Int
}

// NewDctTokenPayment constructs a payment, copying the amount.
func NewDctTokenPayment(identifier TokenIdentifier, nonce uint64, amount *big.Int) DctTokenPayment {
	return DctTokenPayment{
		TokenIdentifier: identifier,
		TokenNonce:      nonce,
		Amount:          new(big.Int).Set(amount),
	}
}

// IsFungible returns true for nonce 0.
func (p DctTokenPayment) IsFungible() bool {
	return p.TokenNonce == 0
}

func (p DctTokenPayment) String() string {
	return fmt.Sprintf("%s-%d: %s", p.TokenIdentifier, p.TokenNonce, p.Amount)
}

// MoaxOrDctTokenPayment is a payment of either MOAX or a single DCT token.
type MoaxOrDctTokenPayment struct {
	TokenIdentifier MoaxOrDctTokenIdentifier
	TokenNonce      uint64
	Amount          *big.Int
}

// NewMoaxPayment wraps a MOAX amount as a payment.
func NewMoaxPayment(amount *big.Int) MoaxOrDctTokenPayment {
	return MoaxOrDctTokenPayment{
		TokenIdentifier: Moax(),
		Amount:          new(big.Int).Set(amount),
	}
}

// AsMoaxOrDct lifts a DCT payment into the MOAX-or-DCT representation.
func (p DctTokenPayment) AsMoaxOrDct() MoaxOrDctTokenPayment {
	return MoaxOrDctTokenPayment{
		TokenIdentifier: Dct(p.TokenIdentifier),
		TokenNonce:      p.TokenNonce,
		Amount:          p.Amount,
	}
}
