package scenario

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/dharitri/dvm-go/model/dharitri"
	vmerrors "github.com/dharitri/dvm-go/vm/errors"
)

// InterpreterContext resolves raw fixture literals into typed values.
// One context is shared by every field of every step in a file, so
// address shorthands and numeric shorthands resolve consistently.
type InterpreterContext struct{}

// NewInterpreterContext constructs an interpreter context.
func NewInterpreterContext() *InterpreterContext {
	return &InterpreterContext{}
}

// Value interprets a byte-string literal. Parts joined with '|' are
// concatenated after individual interpretation.
func (c *InterpreterContext) Value(field, raw string) ([]byte, error) {
	if raw == "" {
		return []byte{}, nil
	}
	var out []byte
	for _, part := range strings.Split(raw, "|") {
		interpreted, err := c.valuePart(field, part)
		if err != nil {
			return nil, err
		}
		out = append(out, interpreted...)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

func (c *InterpreterContext) valuePart(field, raw string) ([]byte, error) {
	switch {
	case raw == "":
		return []byte{}, nil
	case raw == "true":
		return []byte{1}, nil
	case raw == "false":
		return []byte{}, nil
	case strings.HasPrefix(raw, "str:"):
		return []byte(raw[len("str:"):]), nil
	case strings.HasPrefix(raw, "address:"):
		address, err := c.Address(field, raw)
		if err != nil {
			return nil, err
		}
		return address.Bytes(), nil
	case strings.HasPrefix(raw, "sc:"):
		address, err := c.Address(field, raw)
		if err != nil {
			return nil, err
		}
		return address.Bytes(), nil
	case strings.HasPrefix(raw, "u64:"):
		return c.fixedWidth(field, raw[len("u64:"):], 8)
	case strings.HasPrefix(raw, "u32:"):
		return c.fixedWidth(field, raw[len("u32:"):], 4)
	case strings.HasPrefix(raw, "u16:"):
		return c.fixedWidth(field, raw[len("u16:"):], 2)
	case strings.HasPrefix(raw, "u8:"):
		return c.fixedWidth(field, raw[len("u8:"):], 1)
	case strings.HasPrefix(raw, "0x"):
		decoded, err := hex.DecodeString(raw[2:])
		if err != nil {
			return nil, vmerrors.NewInterpretationErrorf(field, "invalid hex literal %q: %v", raw, err)
		}
		return decoded, nil
	default:
		number, ok := c.decimal(raw)
		if !ok {
			return nil, vmerrors.NewInterpretationErrorf(field, "unrecognized literal %q", raw)
		}
		return number.Bytes(), nil
	}
}

// decimal parses an unsigned decimal literal; thousands separators are
// allowed for readability.
func (c *InterpreterContext) decimal(raw string) (*big.Int, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	if cleaned == "" {
		return nil, false
	}
	number, ok := new(big.Int).SetString(cleaned, 10)
	if !ok || number.Sign() < 0 {
		return nil, false
	}
	return number, true
}

func (c *InterpreterContext) fixedWidth(field, raw string, width int) ([]byte, error) {
	number, err := c.BigUint(field, raw)
	if err != nil {
		return nil, err
	}
	if number.BitLen() > width*8 {
		return nil, vmerrors.NewInterpretationErrorf(field, "value %s does not fit in %d bytes", number, width)
	}
	out := make([]byte, width)
	number.FillBytes(out)
	return out, nil
}

// BigUint interprets a non-negative big integer literal.
func (c *InterpreterContext) BigUint(field, raw string) (*big.Int, error) {
	value, err := c.Value(field, raw)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(value), nil
}

// U64 interprets an unsigned 64-bit literal.
func (c *InterpreterContext) U64(field, raw string) (uint64, error) {
	number, err := c.BigUint(field, raw)
	if err != nil {
		return 0, err
	}
	if !number.IsUint64() {
		return 0, vmerrors.NewInterpretationErrorf(field, "value %s does not fit in u64", number)
	}
	return number.Uint64(), nil
}

// Address interprets an address literal. The "address:" shorthand pads a
// name to the address width; the "sc:" shorthand additionally sets the
// leading bytes that mark contract accounts.
func (c *InterpreterContext) Address(field, raw string) (dharitri.Address, error) {
	switch {
	case strings.HasPrefix(raw, "address:"):
		return c.namedAddress(field, raw[len("address:"):], 0)
	case strings.HasPrefix(raw, "sc:"):
		return c.namedAddress(field, raw[len("sc:"):], dharitri.NumInitCharactersForScAddress)
	default:
		value, err := c.Value(field, raw)
		if err != nil {
			return dharitri.ZeroAddress, err
		}
		if len(value) > dharitri.AddressLength {
			return dharitri.ZeroAddress, vmerrors.NewInterpretationErrorf(
				field, "address literal %q is longer than %d bytes", raw, dharitri.AddressLength)
		}
		return dharitri.BytesToAddress(value), nil
	}
}

func (c *InterpreterContext) namedAddress(field, name string, leadingZeros int) (dharitri.Address, error) {
	if len(name) > dharitri.AddressLength-leadingZeros {
		return dharitri.ZeroAddress, vmerrors.NewInterpretationErrorf(
			field, "address name %q is too long", name)
	}
	var address dharitri.Address
	copy(address[leadingZeros:], name)
	for i := leadingZeros + len(name); i < dharitri.AddressLength; i++ {
		address[i] = '_'
	}
	return address, nil
}

// interpretMoaxValue resolves the two legacy spellings of the native
// amount. The explicit moaxValue field takes precedence over the bare
// value field when both are present; fixtures with conflicting values
// are resolved by this precedence, not rejected.
func (c *InterpreterContext) interpretMoaxValue(field string, value, moaxValue *string) (*big.Int, error) {
	if moaxValue != nil {
		return c.BigUint(field, *moaxValue)
	}
	if value != nil {
		return c.BigUint(field, *value)
	}
	return big.NewInt(0), nil
}

// optionalU64 interprets a u64 field, defaulting missing fields to 0.
func (c *InterpreterContext) optionalU64(field string, raw *string) (uint64, error) {
	if raw == nil {
		return 0, nil
	}
	return c.U64(field, *raw)
}
