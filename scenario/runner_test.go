package scenario_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharitri/dvm-go/scenario"
	"github.com/dharitri/dvm-go/vm"
	"github.com/dharitri/dvm-go/vm/state"
)

func newVaultRunner(t *testing.T) *scenario.Runner {
	t.Helper()
	engine := vm.NewEngine(vm.NewContext(), state.NewWorld())
	engine.RegisterContract("vault", map[string]vm.Handler{
		"deposit": func(c *vm.CallContext) error {
			if _, _, err := c.CallValue().MoaxOrSingleFungibleDct(); err != nil {
				return err
			}
			c.StorageSet([]byte("last-depositor"), c.Caller().Bytes())
			c.LogEvent([]byte("deposit"), nil, nil)
			return nil
		},
		"echo": func(c *vm.CallContext) error {
			if err := c.CallValue().CheckNotPayable(); err != nil {
				return err
			}
			for _, arg := range c.Arguments() {
				c.Finish(arg)
			}
			c.LogEvent([]byte("echo"), [][]byte{c.Argument(0)}, c.Argument(1))
			return nil
		},
	})
	return scenario.NewRunner(engine, zerolog.Nop())
}

func TestRunDepositScenario(t *testing.T) {
	runner := newVaultRunner(t)
	require.NoError(t, runner.RunFile("testdata/deposit-moax.scen.json"))
}

func TestRunTwoTransfersScenario(t *testing.T) {
	runner := newVaultRunner(t)
	require.NoError(t, runner.RunFile("testdata/two-transfers-rejected.scen.json"))
}

func TestRunEchoAndTransferScenario(t *testing.T) {
	runner := newVaultRunner(t)
	require.NoError(t, runner.RunFile("testdata/echo-and-transfer.scen.json"))
}

func TestStateCarriesAcrossFiles(t *testing.T) {
	runner := newVaultRunner(t)
	require.NoError(t, runner.RunFile("testdata/deposit-moax.scen.json"))

	// the world produced by the first file is visible to the next one
	require.NoError(t, runner.RunFile("testdata/echo-and-transfer.scen.json"))
}

func TestRunFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		runner := newVaultRunner(t)
		require.Error(t, runner.RunFile("testdata/no-such-file.scen.json"))
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.scen.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

		runner := newVaultRunner(t)
		require.Error(t, runner.RunFile(path))
	})

	t.Run("unknown step kind", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "unknown.scen.json")
		data := `{"steps": [{"step": "dumpState"}]}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		runner := newVaultRunner(t)
		require.Error(t, runner.RunFile(path))
	})

	t.Run("failed expectation names the transaction", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mismatch.scen.json")
		data := `{
			"steps": [
				{
					"step": "setState",
					"accounts": {
						"address:acc1": {"balance": "1000"},
						"sc:vault": {"code": "vault"}
					}
				},
				{
					"step": "scCall",
					"txId": "bad-expect",
					"tx": {
						"from": "address:acc1",
						"to": "sc:vault",
						"moaxValue": "10",
						"function": "deposit",
						"gasLimit": "5,000,000"
					},
					"expect": {"status": "4"}
				}
			]
		}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		runner := newVaultRunner(t)
		err := runner.RunFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad-expect")
		assert.Contains(t, err.Error(), "status mismatch")
	})
}

func TestParseScenario(t *testing.T) {
	t.Run("steps keep file order", func(t *testing.T) {
		data, err := os.ReadFile("testdata/echo-and-transfer.scen.json")
		require.NoError(t, err)

		scn, err := scenario.ParseScenario(data)
		require.NoError(t, err)
		assert.Equal(t, "echo-and-transfer", scn.Name)
		require.Len(t, scn.Steps, 5)
		assert.IsType(t, &scenario.ExternalStepsStep{}, scn.Steps[0])
		assert.IsType(t, &scenario.SetStateStep{}, scn.Steps[1])
		assert.IsType(t, &scenario.TxStep{}, scn.Steps[2])
		assert.IsType(t, &scenario.TxStep{}, scn.Steps[3])
		assert.IsType(t, &scenario.CheckStateStep{}, scn.Steps[4])
	})

	t.Run("zero-amount dct transfer is rejected", func(t *testing.T) {
		data := `{
			"steps": [
				{
					"step": "scCall",
					"tx": {
						"from": "address:a",
						"to": "sc:b",
						"dctValue": [{"tokenIdentifier": "str:TOK-123456", "value": "0"}],
						"function": "deposit"
					}
				}
			]
		}`
		_, err := scenario.ParseScenario([]byte(data))
		require.Error(t, err)
	})

	t.Run("interpretation failures abort the whole file", func(t *testing.T) {
		data := `{
			"steps": [
				{"step": "setState", "accounts": {"address:acc1": {"balance": "not-a-number"}}}
			]
		}`
		_, err := scenario.ParseScenario([]byte(data))
		require.Error(t, err)
	})
}
