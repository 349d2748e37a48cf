package scenario

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/hashicorp/go-multierror"

	"github.com/dharitri/dvm-go/vm"
	"github.com/dharitri/dvm-go/vm/state"
)

type checkValueKind int

const (
	checkUnspecified checkValueKind = iota
	checkAnything
	checkExact
)

// CheckValue is one expectation from a scenario file: an exact byte
// value, the "*" wildcard, or nothing at all. Unspecified values match
// everything, like the wildcard, but render differently in mismatch
// reports.
type CheckValue struct {
	kind     checkValueKind
	expected []byte
	literal  string
}

// UnspecifiedValue matches anything.
func UnspecifiedValue() CheckValue {
	return CheckValue{kind: checkUnspecified}
}

// AnyValue is the explicit "*" wildcard.
func AnyValue() CheckValue {
	return CheckValue{kind: checkAnything, literal: "*"}
}

// ExactValue matches the given bytes only. The literal is kept for
// mismatch reports.
func ExactValue(expected []byte, literal string) CheckValue {
	return CheckValue{kind: checkExact, expected: expected, literal: literal}
}

// CheckValue interprets one expectation expression: "*" is the
// wildcard, everything else is a value expression matched exactly.
func (c *InterpreterContext) CheckValue(field, raw string) (CheckValue, error) {
	if raw == "*" {
		return AnyValue(), nil
	}
	value, err := c.Value(field, raw)
	if err != nil {
		return CheckValue{}, err
	}
	return ExactValue(value, raw), nil
}

// Matches reports whether the actual bytes satisfy this expectation.
func (v CheckValue) Matches(actual []byte) bool {
	if v.kind != checkExact {
		return true
	}
	return bytes.Equal(v.expected, actual)
}

// MatchesU64 checks an integer against this expectation, comparing in
// the canonical big-endian form scenario values normalize to.
func (v CheckValue) MatchesU64(actual uint64) bool {
	return v.Matches(new(big.Int).SetUint64(actual).Bytes())
}

// MatchesBigInt checks a non-negative big integer.
func (v CheckValue) MatchesBigInt(actual *big.Int) bool {
	return v.Matches(actual.Bytes())
}

// IsSpecified reports whether the scenario spelled this check out,
// wildcard included.
func (v CheckValue) IsSpecified() bool {
	return v.kind != checkUnspecified
}

func (v CheckValue) String() string {
	switch v.kind {
	case checkUnspecified:
		return "<unspecified>"
	case checkAnything:
		return "*"
	default:
		return fmt.Sprintf("%q (0x%x)", v.literal, v.expected)
	}
}

type checkLogsMode int

const (
	logsUnspecified checkLogsMode = iota
	logsAnything
	// LogsExact requires the listed entries in emission order.
	LogsExact
	// LogsUnordered requires a one-to-one matching in any order.
	LogsUnordered
)

// CheckLogs is the log expectation of one transaction step.
type CheckLogs struct {
	Mode    checkLogsMode
	Entries []CheckLog
}

// UnspecifiedLogs skips log checking.
func UnspecifiedLogs() CheckLogs {
	return CheckLogs{Mode: logsUnspecified}
}

// AnyLogs is the explicit "*" wildcard.
func AnyLogs() CheckLogs {
	return CheckLogs{Mode: logsAnything}
}

// CheckLog is the expectation for one emitted event.
type CheckLog struct {
	Address   CheckValue
	Endpoint  CheckValue
	HasTopics bool
	Topics    []CheckValue
	Data      CheckValue
}

func (c CheckLog) matches(log vm.TxLog) bool {
	if !c.Address.Matches(log.Address.Bytes()) {
		return false
	}
	if !c.Endpoint.Matches(log.Endpoint) {
		return false
	}
	if c.HasTopics {
		if len(c.Topics) != len(log.Topics) {
			return false
		}
		for i, topic := range c.Topics {
			if !topic.Matches(log.Topics[i]) {
				return false
			}
		}
	}
	return c.Data.Matches(log.Data)
}

// CheckTxResult verifies one transaction outcome against its expect
// block. Every mismatch is reported, not just the first.
func CheckTxResult(txID string, expect *TxExpect, result *vm.TxResult) error {
	if expect == nil {
		return nil
	}
	var errs *multierror.Error

	if expect.Status.IsSpecified() && !expect.Status.Matches(statusBytes(result.Status)) {
		errs = multierror.Append(errs, fmt.Errorf(
			"tx %q: status mismatch: want %s, got %d (%s)",
			txID, expect.Status, result.Status, result.Message))
	}
	if expect.Message.IsSpecified() && !expect.Message.Matches([]byte(result.Message)) {
		errs = multierror.Append(errs, fmt.Errorf(
			"tx %q: message mismatch: want %s, got %q",
			txID, expect.Message, result.Message))
	}
	if expect.HasOut {
		if len(expect.Out) != len(result.ReturnData) {
			errs = multierror.Append(errs, fmt.Errorf(
				"tx %q: out length mismatch: want %d values, got %d",
				txID, len(expect.Out), len(result.ReturnData)))
		} else {
			for i, want := range expect.Out {
				if !want.Matches(result.ReturnData[i]) {
					errs = multierror.Append(errs, fmt.Errorf(
						"tx %q: out[%d] mismatch: want %s, got 0x%x",
						txID, i, want, result.ReturnData[i]))
				}
			}
		}
	}
	if expect.Gas.IsSpecified() && !expect.Gas.MatchesU64(result.GasRemaining) {
		errs = multierror.Append(errs, fmt.Errorf(
			"tx %q: gas mismatch: want %s, got %d",
			txID, expect.Gas, result.GasRemaining))
	}
	if err := checkLogs(txID, expect.Logs, result.Logs); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

// statusBytes is the canonical form status expectations compare
// against: the code as a minimal big-endian integer.
func statusBytes(status vm.StatusCode) []byte {
	return big.NewInt(int64(status)).Bytes()
}

func checkLogs(txID string, expect CheckLogs, actual []vm.TxLog) error {
	switch expect.Mode {
	case logsUnspecified, logsAnything:
		return nil
	case LogsExact:
		if len(expect.Entries) != len(actual) {
			return fmt.Errorf(
				"tx %q: log count mismatch: want %d entries, got %d",
				txID, len(expect.Entries), len(actual))
		}
		var errs *multierror.Error
		for i, entry := range expect.Entries {
			if !entry.matches(actual[i]) {
				errs = multierror.Append(errs, fmt.Errorf(
					"tx %q: log[%d] mismatch at %x, endpoint %q",
					txID, i, actual[i].Address, actual[i].Endpoint))
			}
		}
		return errs.ErrorOrNil()
	case LogsUnordered:
		return checkLogsUnordered(txID, expect.Entries, actual)
	default:
		return fmt.Errorf("tx %q: unknown log check mode", txID)
	}
}

// checkLogsUnordered greedily pairs each expected entry with the first
// unclaimed actual log it matches. Scenario log patterns are specific
// enough in practice that greedy pairing does not misfire.
func checkLogsUnordered(txID string, entries []CheckLog, actual []vm.TxLog) error {
	if len(entries) != len(actual) {
		return fmt.Errorf(
			"tx %q: log count mismatch: want %d entries, got %d",
			txID, len(entries), len(actual))
	}
	claimed := make([]bool, len(actual))
	var errs *multierror.Error
	for i, entry := range entries {
		found := false
		for j, log := range actual {
			if claimed[j] || !entry.matches(log) {
				continue
			}
			claimed[j] = true
			found = true
			break
		}
		if !found {
			errs = multierror.Append(errs, fmt.Errorf(
				"tx %q: unordered log entry %d matched no emitted event", txID, i))
		}
	}
	return errs.ErrorOrNil()
}

// CheckWorldState verifies the listed accounts against the world.
// Fields a check record leaves out are not constrained; accounts the
// step does not mention are never inspected.
func CheckWorldState(step *CheckStateStep, world *state.World) error {
	var errs *multierror.Error
	for _, check := range step.Accounts {
		account := world.GetAccount(check.Address)
		if account == nil {
			errs = multierror.Append(errs, fmt.Errorf(
				"account %x: missing from state", check.Address))
			continue
		}
		if check.Nonce.IsSpecified() && !check.Nonce.MatchesU64(account.Nonce) {
			errs = multierror.Append(errs, fmt.Errorf(
				"account %x: nonce mismatch: want %s, got %d",
				check.Address, check.Nonce, account.Nonce))
		}
		if check.Balance.IsSpecified() && !check.Balance.MatchesBigInt(account.MoaxBalance) {
			errs = multierror.Append(errs, fmt.Errorf(
				"account %x: balance mismatch: want %s, got %s",
				check.Address, check.Balance, account.MoaxBalance))
		}
		for _, entry := range check.Dct {
			balance := account.DctBalance(entry.Key.Identifier, entry.Key.Nonce)
			if !entry.Expected.MatchesBigInt(balance) {
				errs = multierror.Append(errs, fmt.Errorf(
					"account %x: dct %s balance mismatch: want %s, got %s",
					check.Address, entry.Key.Identifier, entry.Expected, balance))
			}
		}
		for _, entry := range check.Storage {
			value := account.Storage[string(entry.Key)]
			if !entry.Expected.Matches(value) {
				errs = multierror.Append(errs, fmt.Errorf(
					"account %x: storage key 0x%x mismatch: want %s, got 0x%x",
					check.Address, entry.Key, entry.Expected, value))
			}
		}
	}
	return errs.ErrorOrNil()
}
