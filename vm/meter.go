package vm

import (
	vmerrors "github.com/dharitri/dvm-go/vm/errors"
)

// GasSchedule holds the fixed costs charged at the engine's accounting
// points. Contract logic charges its own declared costs through UseGas.
type GasSchedule struct {
	BaseCallCost     uint64
	PerByteOfArgCost uint64
	TransferCost     uint64
}

// DefaultGasSchedule returns the schedule used when the context does not
// override it.
func DefaultGasSchedule() GasSchedule {
	return GasSchedule{
		BaseCallCost:     50_000,
		PerByteOfArgCost: 1_500,
		TransferCost:     50_000,
	}
}

// GasMeter tracks gas usage against a limit. Gas exhaustion is the only
// resource-bound failure mode; it is checked at every UseGas call.
type GasMeter struct {
	gasLimit uint64
	gasUsed  uint64
}

// NewGasMeter constructs a new meter for one call frame.
func NewGasMeter(gasLimit uint64) *GasMeter {
	return &GasMeter{gasLimit: gasLimit}
}

// UseGas charges the given amount and errors once the limit is crossed.
func (m *GasMeter) UseGas(amount uint64) error {
	m.gasUsed += amount
	if m.gasUsed > m.gasLimit {
		return vmerrors.NewOutOfGasError(m.gasUsed, m.gasLimit)
	}
	return nil
}

// RefundGas returns unspent gas handed to a nested call back to this
// meter.
func (m *GasMeter) RefundGas(amount uint64) {
	if amount > m.gasUsed {
		amount = m.gasUsed
	}
	m.gasUsed -= amount
}

// GasUsed returns the gas charged so far.
func (m *GasMeter) GasUsed() uint64 {
	return m.gasUsed
}

// GasRemaining returns the unspent portion of the limit.
func (m *GasMeter) GasRemaining() uint64 {
	if m.gasUsed > m.gasLimit {
		return 0
	}
	return m.gasLimit - m.gasUsed
}
