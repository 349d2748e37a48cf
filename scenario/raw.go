package scenario

import (
	"encoding/json"
)

// Raw fixture records, the loosely-typed shape of a scenario file on
// disk. Every field is interpreted into the typed model before any step
// executes; a file that fails interpretation never runs at all.
type scenarioRaw struct {
	Name    string            `json:"name,omitempty"`
	Comment string            `json:"comment,omitempty"`
	Steps   []json.RawMessage `json:"steps"`
}

// stepHeaderRaw peeks at the step discriminator before the full decode.
type stepHeaderRaw struct {
	Step string `json:"step"`
}

const (
	stepNameSetState      = "setState"
	stepNameScCall        = "scCall"
	stepNameTransfer      = "transfer"
	stepNameCheckState    = "checkState"
	stepNameExternalSteps = "externalSteps"
)

type setStateStepRaw struct {
	Step     string                `json:"step"`
	Comment  string                `json:"comment,omitempty"`
	Accounts map[string]accountRaw `json:"accounts"`
}

type accountRaw struct {
	Nonce   *string                    `json:"nonce,omitempty"`
	Balance *string                    `json:"balance,omitempty"`
	Dct     map[string]json.RawMessage `json:"dct,omitempty"`
	Storage map[string]string          `json:"storage,omitempty"`
	Code    *string                    `json:"code,omitempty"`
	Owner   *string                    `json:"owner,omitempty"`
}

// dctInstanceRaw is the object form of a DCT balance entry, used when a
// nonce is needed. The plain string form covers fungible balances.
type dctInstanceRaw struct {
	Nonce   *string `json:"nonce,omitempty"`
	Balance string  `json:"balance"`
}

type txStepRaw struct {
	Step    string       `json:"step"`
	TxID    string       `json:"txId,omitempty"`
	Comment string       `json:"comment,omitempty"`
	Tx      txRaw        `json:"tx"`
	Expect  *txExpectRaw `json:"expect,omitempty"`
}

// txRaw carries both legacy spellings of the native amount: a bare
// "value" and an explicit "moaxValue". Interpretation gives the explicit
// field precedence.
type txRaw struct {
	From      string     `json:"from"`
	To        string     `json:"to"`
	Value     *string    `json:"value,omitempty"`
	MoaxValue *string    `json:"moaxValue,omitempty"`
	DctValue  []txDctRaw `json:"dctValue,omitempty"`
	Function  string     `json:"function,omitempty"`
	Arguments []string   `json:"arguments,omitempty"`
	GasLimit  *string    `json:"gasLimit,omitempty"`
	GasPrice  *string    `json:"gasPrice,omitempty"`
}

type txDctRaw struct {
	TokenIdentifier string  `json:"tokenIdentifier"`
	Nonce           *string `json:"nonce,omitempty"`
	Value           string  `json:"value"`
}

type txExpectRaw struct {
	Out     []string        `json:"out,omitempty"`
	Status  *string         `json:"status,omitempty"`
	Message *string         `json:"message,omitempty"`
	Logs    json.RawMessage `json:"logs,omitempty"`
	Gas     *string         `json:"gas,omitempty"`
}

// checkLogsRaw is either the string "*" (any logs), a plain list (exact,
// ordered) or {"unordered": [...]}.
type checkLogsUnorderedRaw struct {
	Unordered []checkLogRaw `json:"unordered"`
}

type checkLogRaw struct {
	Address  *string  `json:"address,omitempty"`
	Endpoint *string  `json:"endpoint,omitempty"`
	Topics   []string `json:"topics,omitempty"`
	Data     *string  `json:"data,omitempty"`
}

type checkStateStepRaw struct {
	Step     string                     `json:"step"`
	Comment  string                     `json:"comment,omitempty"`
	Accounts map[string]checkAccountRaw `json:"accounts"`
}

type checkAccountRaw struct {
	Nonce   *string           `json:"nonce,omitempty"`
	Balance *string           `json:"balance,omitempty"`
	Dct     map[string]string `json:"dct,omitempty"`
	Storage map[string]string `json:"storage,omitempty"`
}

type externalStepsStepRaw struct {
	Step string `json:"step"`
	Path string `json:"path"`
}
