package scenario

import (
	"encoding/json"
	"sort"

	"github.com/dharitri/dvm-go/model/dharitri"
	"github.com/dharitri/dvm-go/vm"
	vmerrors "github.com/dharitri/dvm-go/vm/errors"
	"github.com/dharitri/dvm-go/vm/state"
)

// Scenario is one fully interpreted fixture file: a list of steps to run
// in order against the mock engine.
type Scenario struct {
	Name    string
	Comment string
	Steps   []Step
}

// Step is one scenario step.
type Step interface {
	stepName() string
}

// SetStateStep installs fully specified accounts into the world.
type SetStateStep struct {
	Accounts []*state.Account
}

func (s *SetStateStep) stepName() string { return stepNameSetState }

// TxStep executes one transaction: a contract call or a plain transfer.
type TxStep struct {
	TxID   string
	Kind   string
	Tx     *vm.TxInput
	Expect *TxExpect
}

func (s *TxStep) stepName() string { return s.Kind }

// TxExpect is the checked outcome of a TxStep. Each field is independent:
// exact bytes, a wildcard, or unspecified.
type TxExpect struct {
	Out     []CheckValue
	HasOut  bool
	Status  CheckValue
	Message CheckValue
	Logs    CheckLogs
	Gas     CheckValue
}

// CheckStateStep verifies account balances and storage.
type CheckStateStep struct {
	Accounts []*CheckAccount
}

func (s *CheckStateStep) stepName() string { return stepNameCheckState }

// CheckAccount holds the patterns checked against one account.
type CheckAccount struct {
	Address dharitri.Address
	Nonce   CheckValue
	Balance CheckValue
	Dct     []CheckDctEntry
	Storage []CheckStorageEntry
}

type CheckDctEntry struct {
	Key      state.TokenKey
	Expected CheckValue
}

type CheckStorageEntry struct {
	Key      []byte
	Expected CheckValue
}

// ExternalStepsStep includes the steps of another scenario file.
type ExternalStepsStep struct {
	Path string
}

func (s *ExternalStepsStep) stepName() string { return stepNameExternalSteps }

// ParseScenario interprets raw scenario JSON into the typed model. Any
// interpretation error aborts the whole file; no partial scenario is
// ever returned.
func ParseScenario(data []byte) (*Scenario, error) {
	var raw scenarioRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, vmerrors.NewInterpretationErrorf("scenario", "invalid JSON: %v", err)
	}

	ctx := NewInterpreterContext()
	scn := &Scenario{Name: raw.Name, Comment: raw.Comment}
	for _, rawStep := range raw.Steps {
		step, err := parseStep(ctx, rawStep)
		if err != nil {
			return nil, err
		}
		scn.Steps = append(scn.Steps, step)
	}
	return scn, nil
}

func parseStep(ctx *InterpreterContext, data json.RawMessage) (Step, error) {
	var header stepHeaderRaw
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, vmerrors.NewInterpretationErrorf("step", "invalid step record: %v", err)
	}
	switch header.Step {
	case stepNameSetState:
		return parseSetStateStep(ctx, data)
	case stepNameScCall, stepNameTransfer:
		return parseTxStep(ctx, header.Step, data)
	case stepNameCheckState:
		return parseCheckStateStep(ctx, data)
	case stepNameExternalSteps:
		var raw externalStepsStepRaw
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, vmerrors.NewInterpretationErrorf("externalSteps", "invalid record: %v", err)
		}
		if raw.Path == "" {
			return nil, vmerrors.NewInterpretationErrorf("externalSteps", "missing path")
		}
		return &ExternalStepsStep{Path: raw.Path}, nil
	default:
		return nil, vmerrors.NewInterpretationErrorf("step", "unknown step kind %q", header.Step)
	}
}

func parseSetStateStep(ctx *InterpreterContext, data json.RawMessage) (Step, error) {
	var raw setStateStepRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, vmerrors.NewInterpretationErrorf(stepNameSetState, "invalid record: %v", err)
	}

	step := &SetStateStep{}
	for _, rawAddress := range sortedKeys(raw.Accounts) {
		rawAccount := raw.Accounts[rawAddress]
		address, err := ctx.Address("accounts", rawAddress)
		if err != nil {
			return nil, err
		}
		account := state.NewAccount(address)
		if account.Nonce, err = ctx.optionalU64("nonce", rawAccount.Nonce); err != nil {
			return nil, err
		}
		if rawAccount.Balance != nil {
			if account.MoaxBalance, err = ctx.BigUint("balance", *rawAccount.Balance); err != nil {
				return nil, err
			}
		}
		if err := parseDctBalances(ctx, rawAccount.Dct, account); err != nil {
			return nil, err
		}
		for rawKey, rawValue := range rawAccount.Storage {
			key, err := ctx.Value("storage", rawKey)
			if err != nil {
				return nil, err
			}
			value, err := ctx.Value("storage", rawValue)
			if err != nil {
				return nil, err
			}
			if len(value) > 0 {
				account.Storage[string(key)] = value
			}
		}
		if rawAccount.Code != nil {
			account.CodeName = *rawAccount.Code
		}
		if rawAccount.Owner != nil {
			if account.Owner, err = ctx.Address("owner", *rawAccount.Owner); err != nil {
				return nil, err
			}
		}
		step.Accounts = append(step.Accounts, account)
	}
	return step, nil
}

// parseDctBalances accepts both entry forms: a plain amount string for
// fungible balances, or an object carrying a nonce.
func parseDctBalances(ctx *InterpreterContext, raw map[string]json.RawMessage, account *state.Account) error {
	for _, rawToken := range sortedKeys(raw) {
		identifierBytes, err := ctx.Value("dct", rawToken)
		if err != nil {
			return err
		}
		identifier := dharitri.TokenIdentifier(identifierBytes)

		entry := raw[rawToken]
		var amountLiteral string
		var nonce uint64
		if err := json.Unmarshal(entry, &amountLiteral); err != nil {
			var instance dctInstanceRaw
			if err := json.Unmarshal(entry, &instance); err != nil {
				return vmerrors.NewInterpretationErrorf("dct", "invalid balance entry for %s", identifier)
			}
			amountLiteral = instance.Balance
			if nonce, err = ctx.optionalU64("dct.nonce", instance.Nonce); err != nil {
				return err
			}
		}
		amount, err := ctx.BigUint("dct.balance", amountLiteral)
		if err != nil {
			return err
		}
		if amount.Sign() > 0 {
			account.DctBalances[state.TokenKey{Identifier: identifier, Nonce: nonce}] = amount
		}
	}
	return nil
}

func parseTxStep(ctx *InterpreterContext, kind string, data json.RawMessage) (Step, error) {
	var raw txStepRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, vmerrors.NewInterpretationErrorf(kind, "invalid record: %v", err)
	}

	from, err := ctx.Address("from", raw.Tx.From)
	if err != nil {
		return nil, err
	}
	to, err := ctx.Address("to", raw.Tx.To)
	if err != nil {
		return nil, err
	}

	input := vm.NewTxInput(from, to)
	moaxValue, err := ctx.interpretMoaxValue("value", raw.Tx.Value, raw.Tx.MoaxValue)
	if err != nil {
		return nil, err
	}
	input.WithMoaxValue(moaxValue)

	for _, rawDct := range raw.Tx.DctValue {
		identifierBytes, err := ctx.Value("dctValue.tokenIdentifier", rawDct.TokenIdentifier)
		if err != nil {
			return nil, err
		}
		nonce, err := ctx.optionalU64("dctValue.nonce", rawDct.Nonce)
		if err != nil {
			return nil, err
		}
		amount, err := ctx.BigUint("dctValue.value", rawDct.Value)
		if err != nil {
			return nil, err
		}
		if amount.Sign() == 0 {
			return nil, vmerrors.NewInterpretationErrorf("dctValue.value",
				"a zero-amount transfer is not a transfer")
		}
		input.WithDctValue(dharitri.TokenIdentifier(identifierBytes), nonce, amount)
	}

	input.FuncName = raw.Tx.Function
	for _, rawArg := range raw.Tx.Arguments {
		arg, err := ctx.Value("arguments", rawArg)
		if err != nil {
			return nil, err
		}
		input.Args = append(input.Args, arg)
	}
	if input.GasLimit, err = ctx.optionalU64("gasLimit", raw.Tx.GasLimit); err != nil {
		return nil, err
	}
	if input.GasPrice, err = ctx.optionalU64("gasPrice", raw.Tx.GasPrice); err != nil {
		return nil, err
	}
	input.TxHash = dharitri.ComputeTxHash([]byte(raw.TxID))

	expect, err := parseTxExpect(ctx, raw.Expect)
	if err != nil {
		return nil, err
	}
	return &TxStep{TxID: raw.TxID, Kind: kind, Tx: input, Expect: expect}, nil
}

func parseTxExpect(ctx *InterpreterContext, raw *txExpectRaw) (*TxExpect, error) {
	if raw == nil {
		return nil, nil
	}
	expect := &TxExpect{
		Status:  UnspecifiedValue(),
		Message: UnspecifiedValue(),
		Gas:     UnspecifiedValue(),
		Logs:    UnspecifiedLogs(),
	}
	var err error
	if raw.Out != nil {
		expect.HasOut = true
		for _, rawOut := range raw.Out {
			value, err := ctx.CheckValue("out", rawOut)
			if err != nil {
				return nil, err
			}
			expect.Out = append(expect.Out, value)
		}
	}
	if raw.Status != nil {
		if expect.Status, err = ctx.CheckValue("status", *raw.Status); err != nil {
			return nil, err
		}
	}
	if raw.Message != nil {
		if expect.Message, err = ctx.CheckValue("message", *raw.Message); err != nil {
			return nil, err
		}
	}
	if raw.Gas != nil {
		if expect.Gas, err = ctx.CheckValue("gas", *raw.Gas); err != nil {
			return nil, err
		}
	}
	if expect.Logs, err = parseCheckLogs(ctx, raw.Logs); err != nil {
		return nil, err
	}
	return expect, nil
}

func parseCheckLogs(ctx *InterpreterContext, raw json.RawMessage) (CheckLogs, error) {
	if len(raw) == 0 {
		return UnspecifiedLogs(), nil
	}

	var star string
	if err := json.Unmarshal(raw, &star); err == nil {
		if star == "*" {
			return AnyLogs(), nil
		}
		return CheckLogs{}, vmerrors.NewInterpretationErrorf("logs", "unrecognized literal %q", star)
	}

	var entries []checkLogRaw
	unordered := false
	if err := json.Unmarshal(raw, &entries); err != nil {
		var wrapper checkLogsUnorderedRaw
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return CheckLogs{}, vmerrors.NewInterpretationErrorf("logs", "invalid log check list")
		}
		entries = wrapper.Unordered
		unordered = true
	}

	logs := CheckLogs{Mode: LogsExact}
	if unordered {
		logs.Mode = LogsUnordered
	}
	for _, rawEntry := range entries {
		entry := CheckLog{
			Address:  UnspecifiedValue(),
			Endpoint: UnspecifiedValue(),
			Data:     UnspecifiedValue(),
		}
		var err error
		if rawEntry.Address != nil {
			if entry.Address, err = ctx.CheckValue("logs.address", *rawEntry.Address); err != nil {
				return CheckLogs{}, err
			}
		}
		if rawEntry.Endpoint != nil {
			if entry.Endpoint, err = ctx.CheckValue("logs.endpoint", *rawEntry.Endpoint); err != nil {
				return CheckLogs{}, err
			}
		}
		if rawEntry.Topics != nil {
			entry.HasTopics = true
			for _, rawTopic := range rawEntry.Topics {
				topic, err := ctx.CheckValue("logs.topics", rawTopic)
				if err != nil {
					return CheckLogs{}, err
				}
				entry.Topics = append(entry.Topics, topic)
			}
		}
		if rawEntry.Data != nil {
			if entry.Data, err = ctx.CheckValue("logs.data", *rawEntry.Data); err != nil {
				return CheckLogs{}, err
			}
		}
		logs.Entries = append(logs.Entries, entry)
	}
	return logs, nil
}

func parseCheckStateStep(ctx *InterpreterContext, data json.RawMessage) (Step, error) {
	var raw checkStateStepRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, vmerrors.NewInterpretationErrorf(stepNameCheckState, "invalid record: %v", err)
	}

	step := &CheckStateStep{}
	for _, rawAddress := range sortedKeys(raw.Accounts) {
		rawAccount := raw.Accounts[rawAddress]
		address, err := ctx.Address("accounts", rawAddress)
		if err != nil {
			return nil, err
		}
		account := &CheckAccount{
			Address: address,
			Nonce:   UnspecifiedValue(),
			Balance: UnspecifiedValue(),
		}
		if rawAccount.Nonce != nil {
			if account.Nonce, err = ctx.CheckValue("nonce", *rawAccount.Nonce); err != nil {
				return nil, err
			}
		}
		if rawAccount.Balance != nil {
			if account.Balance, err = ctx.CheckValue("balance", *rawAccount.Balance); err != nil {
				return nil, err
			}
		}
		for _, rawToken := range sortedKeys(rawAccount.Dct) {
			identifierBytes, err := ctx.Value("dct", rawToken)
			if err != nil {
				return nil, err
			}
			expected, err := ctx.CheckValue("dct", rawAccount.Dct[rawToken])
			if err != nil {
				return nil, err
			}
			account.Dct = append(account.Dct, CheckDctEntry{
				Key:      state.TokenKey{Identifier: dharitri.TokenIdentifier(identifierBytes)},
				Expected: expected,
			})
		}
		for _, rawKey := range sortedKeys(rawAccount.Storage) {
			key, err := ctx.Value("storage", rawKey)
			if err != nil {
				return nil, err
			}
			expected, err := ctx.CheckValue("storage", rawAccount.Storage[rawKey])
			if err != nil {
				return nil, err
			}
			account.Storage = append(account.Storage, CheckStorageEntry{
				Key:      key,
				Expected: expected,
			})
		}
		step.Accounts = append(step.Accounts, account)
	}
	return step, nil
}

// sortedKeys keeps map-driven interpretation deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
