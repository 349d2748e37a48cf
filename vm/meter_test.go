package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vmerrors "github.com/dharitri/dvm-go/vm/errors"
)

func TestGasMeter(t *testing.T) {
	m := NewGasMeter(100)
	require.NoError(t, m.UseGas(60))
	assert.Equal(t, uint64(60), m.GasUsed())
	assert.Equal(t, uint64(40), m.GasRemaining())

	err := m.UseGas(41)
	require.True(t, vmerrors.IsOutOfGasError(err))
	assert.Equal(t, uint64(0), m.GasRemaining())
}

func TestGasMeterRefund(t *testing.T) {
	m := NewGasMeter(100)
	require.NoError(t, m.UseGas(80))
	m.RefundGas(30)
	assert.Equal(t, uint64(50), m.GasUsed())

	// refunds never underflow
	m.RefundGas(1000)
	assert.Equal(t, uint64(0), m.GasUsed())
}
