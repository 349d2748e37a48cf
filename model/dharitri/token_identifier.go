package dharitri

import (
	"bytes"
)

const (
	tokenTickerMinLength = 3
	tokenTickerMaxLength = 10
	tokenRandomLength    = 6
)

// TokenIdentifier is a DCT token identifier, e.g. "ALC-6258d2".
type TokenIdentifier string

// NewTokenIdentifier wraps raw bytes as a token identifier, without
// checking validity.
func NewTokenIdentifier(b []byte) TokenIdentifier {
	return TokenIdentifier(b)
}

// Bytes returns the byte representation of the identifier.
func (t TokenIdentifier) Bytes() []byte {
	return []byte(t)
}

func (t TokenIdentifier) String() string {
	return string(t)
}

// IsValid checks the token identifier format: a ticker of 3 to 10
// uppercase alphanumeric characters, a dash, and a 6 character
// lowercase-hex random suffix.
func (t TokenIdentifier) IsValid() bool {
	id := string(t)
	suffixStart := len(id) - tokenRandomLength - 1
	if suffixStart < tokenTickerMinLength || suffixStart > tokenTickerMaxLength {
		return false
	}
	if id[suffixStart] != '-' {
		return false
	}
	for i := 0; i < suffixStart; i++ {
		c := id[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	for i := suffixStart + 1; i < len(id); i++ {
		c := id[i]
		if !(c >= 'a' && c <= 'f') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// MoaxRepresentation is the reserved textual form of the native coin at
// the serialization boundary. A DCT identifier byte-for-byte equal to it
// cannot be distinguished from MOAX after encoding; the identifier
// namespace reserves this string.
var MoaxRepresentation = []byte("MOAX")

// MoaxOrDctTokenIdentifier handles either the MOAX native coin or a DCT
// token identifier.
//
// The two states are mutually exclusive: the native coin carries no
// identifier at all, so it is modelled as the absence of one rather than
// as a sentinel identifier value.
type MoaxOrDctTokenIdentifier struct {
	identifier TokenIdentifier
	isMoax     bool
}

// Moax returns the native coin instance.
func Moax() MoaxOrDctTokenIdentifier {
	return MoaxOrDctTokenIdentifier{isMoax: true}
}

// Dct wraps a DCT token identifier.
func Dct(identifier TokenIdentifier) MoaxOrDctTokenIdentifier {
	return MoaxOrDctTokenIdentifier{identifier: identifier}
}

// ParseMoaxOrDct interprets serialized bytes: the reserved MOAX marker
// yields the native state, anything else is wrapped as a DCT token
// identifier. Identifier validity is not checked at parse time.
func ParseMoaxOrDct(data []byte) MoaxOrDctTokenIdentifier {
	if bytes.Equal(data, MoaxRepresentation) {
		return Moax()
	}
	return Dct(NewTokenIdentifier(data))
}

// IsMoax returns true for the native coin state.
func (t MoaxOrDctTokenIdentifier) IsMoax() bool {
	return t.isMoax
}

// IsDct returns true if a DCT token identifier is present.
func (t MoaxOrDctTokenIdentifier) IsDct() bool {
	return !t.isMoax
}

// IsValid checks the DCT token identifier for validity. MOAX is always
// valid, no checks needed.
func (t MoaxOrDctTokenIdentifier) IsValid() bool {
	if t.isMoax {
		return true
	}
	return t.identifier.IsValid()
}

// DctIdentifier returns the wrapped identifier and whether one is present.
func (t MoaxOrDctTokenIdentifier) DctIdentifier() (TokenIdentifier, bool) {
	if t.isMoax {
		return "", false
	}
	return t.identifier, true
}

// MustDctIdentifier returns the wrapped identifier and panics on MOAX.
func (t MoaxOrDctTokenIdentifier) MustDctIdentifier() TokenIdentifier {
	if t.isMoax {
		panic("DCT token identifier expected, got MOAX")
	}
	return t.identifier
}

// Bytes serializes the value: the reserved marker for MOAX, the
// identifier bytes verbatim otherwise. The encoding is self-describing
// without a tag byte and round-trips through ParseMoaxOrDct.
func (t MoaxOrDctTokenIdentifier) Bytes() []byte {
	if t.isMoax {
		return MoaxRepresentation
	}
	return t.identifier.Bytes()
}

// Equal compares on the resolved identifier, never on the absence
// encoding.
func (t MoaxOrDctTokenIdentifier) Equal(other MoaxOrDctTokenIdentifier) bool {
	if t.isMoax || other.isMoax {
		return t.isMoax == other.isMoax
	}
	return t.identifier == other.identifier
}

func (t MoaxOrDctTokenIdentifier) String() string {
	return string(t.Bytes())
}
