package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dharitri/dvm-go/scenario"
	"github.com/dharitri/dvm-go/vm"
	"github.com/dharitri/dvm-go/vm/state"
)

var flagDumpStateDir string

var runCmd = &cobra.Command{
	Use:   "run <files-or-dirs>",
	Short: "Execute scenario files and report pass/fail",
	Long: "Executes every given scenario file, and every *.scen.json file " +
		"under every given directory, each against a fresh world state.",
	Args: cobra.MinimumNArgs(1),
	RunE: runScenarios,
}

func init() {
	runCmd.Flags().StringVar(&flagDumpStateDir, "dump-state", "",
		"directory to write a CBOR state snapshot per scenario file into")

	rootCmd.AddCommand(runCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	paths, err := collectScenarioFiles(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no scenario files found under %s", strings.Join(args, ", "))
	}

	failed := 0
	for _, path := range paths {
		if err := runOne(path); err != nil {
			failed++
			log.Error().Err(err).Str("file", path).Msg("scenario failed")
			continue
		}
		log.Info().Str("file", path).Msg("scenario passed")
	}

	log.Info().
		Int("total", len(paths)).
		Int("failed", failed).
		Msg("done")
	if failed > 0 {
		return fmt.Errorf("%d of %d scenario files failed", failed, len(paths))
	}
	return nil
}

// runOne executes a single scenario file on a fresh engine, so files
// never leak state into each other.
func runOne(path string) error {
	engine := vm.NewEngine(vm.NewContext(vm.WithLogger(log)), state.NewWorld())
	runner := scenario.NewRunner(engine, log)
	if err := runner.RunFile(path); err != nil {
		return err
	}
	if flagDumpStateDir != "" {
		return dumpState(engine.World(), path)
	}
	return nil
}

func dumpState(world *state.World, scenarioPath string) error {
	encoded, err := world.EncodeSnapshot()
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(scenarioPath), ".scen.json")
	outPath := filepath.Join(flagDumpStateDir, base+".state.cbor")
	if err := os.MkdirAll(flagDumpStateDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, encoded, 0o644)
}

// collectScenarioFiles expands directory arguments into the scenario
// files beneath them. Explicit file arguments are taken as-is.
func collectScenarioFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && strings.HasSuffix(path, ".scen.json") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}
