package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharitri/dvm-go/model/dharitri"
)

func TestValueInterpretation(t *testing.T) {
	ctx := NewInterpreterContext()

	cases := []struct {
		raw      string
		expected []byte
	}{
		{"", []byte{}},
		{"0", []byte{}},
		{"false", []byte{}},
		{"true", []byte{1}},
		{"0x", []byte{}},
		{"0x0102", []byte{0x01, 0x02}},
		{"0xDEADBEEF", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"12", []byte{12}},
		{"256", []byte{1, 0}},
		{"1,000,000", []byte{0x0f, 0x42, 0x40}},
		{"str:abc", []byte("abc")},
		{"u8:7", []byte{7}},
		{"u16:7", []byte{0, 7}},
		{"u32:7", []byte{0, 0, 0, 7}},
		{"u64:7", []byte{0, 0, 0, 0, 0, 0, 0, 7}},
		{"u32:65536", []byte{0, 1, 0, 0}},
		{"str:a|str:b", []byte("ab")},
		{"u8:1|u8:2|0x03", []byte{1, 2, 3}},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			value, err := ctx.Value("field", c.raw)
			require.NoError(t, err)
			assert.Equal(t, c.expected, value)
		})
	}
}

func TestValueInterpretationErrors(t *testing.T) {
	ctx := NewInterpreterContext()

	for _, raw := range []string{
		"0xzz",
		"-5",
		"u8:256",
		"u16:65536",
		"not-a-literal",
		"str:ok|0xzz",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ctx.Value("field", raw)
			require.Error(t, err)
		})
	}
}

func TestAddressInterpretation(t *testing.T) {
	ctx := NewInterpreterContext()

	t.Run("named user address pads with underscores", func(t *testing.T) {
		address, err := ctx.Address("field", "address:alice")
		require.NoError(t, err)
		assert.Equal(t, []byte("alice___________________________"), address.Bytes())
		assert.False(t, address.IsSmartContract())
	})

	t.Run("named contract address keeps the leading zero bytes", func(t *testing.T) {
		address, err := ctx.Address("field", "sc:vault")
		require.NoError(t, err)
		expected := append(make([]byte, 8), []byte("vault___________________")...)
		assert.Equal(t, expected, address.Bytes())
		assert.True(t, address.IsSmartContract())
	})

	t.Run("hex literal is left padded to the address width", func(t *testing.T) {
		address, err := ctx.Address("field", "0x01")
		require.NoError(t, err)
		assert.Equal(t, byte(1), address[dharitri.AddressLength-1])
	})

	t.Run("too long names are rejected", func(t *testing.T) {
		_, err := ctx.Address("field", "address:"+string(make([]byte, 33)))
		require.Error(t, err)
	})

	t.Run("named addresses appear verbatim inside values", func(t *testing.T) {
		value, err := ctx.Value("field", "address:alice")
		require.NoError(t, err)
		assert.Len(t, value, dharitri.AddressLength)
	})
}

func TestMoaxValuePrecedence(t *testing.T) {
	ctx := NewInterpreterContext()
	value := "100"
	moaxValue := "250"

	t.Run("moaxValue wins over value", func(t *testing.T) {
		amount, err := ctx.interpretMoaxValue("value", &value, &moaxValue)
		require.NoError(t, err)
		assert.Equal(t, "250", amount.String())
	})

	t.Run("value alone still applies", func(t *testing.T) {
		amount, err := ctx.interpretMoaxValue("value", &value, nil)
		require.NoError(t, err)
		assert.Equal(t, "100", amount.String())
	})

	t.Run("both missing defaults to zero", func(t *testing.T) {
		amount, err := ctx.interpretMoaxValue("value", nil, nil)
		require.NoError(t, err)
		assert.Zero(t, amount.Sign())
	})
}

func TestU64Interpretation(t *testing.T) {
	ctx := NewInterpreterContext()

	number, err := ctx.U64("gasLimit", "5,000,000")
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000), number)

	_, err = ctx.U64("gasLimit", "0x0100000000000000000000")
	require.Error(t, err)
}
