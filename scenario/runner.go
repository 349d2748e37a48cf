package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"

	"github.com/dharitri/dvm-go/vm"
	vmerrors "github.com/dharitri/dvm-go/vm/errors"
)

// scenarioCacheSize bounds the parsed-file cache. Scenario suites
// reference shared externalSteps files many times over.
const scenarioCacheSize = 64

// A Runner executes scenario files against one engine. The engine's
// world state carries over from step to step and from file to file, so
// one runner per scenario is the usual arrangement.
type Runner struct {
	engine *vm.Engine
	log    zerolog.Logger
	files  *lru.Cache
}

// NewRunner wraps an engine for scenario execution.
func NewRunner(engine *vm.Engine, log zerolog.Logger) *Runner {
	files, _ := lru.New(scenarioCacheSize)
	return &Runner{
		engine: engine,
		log:    log,
		files:  files,
	}
}

// Engine exposes the wrapped engine, mainly so callers can register
// contract endpoints and inspect the world afterwards.
func (r *Runner) Engine() *vm.Engine {
	return r.engine
}

// RunFile loads and executes one scenario file. Paths inside the file
// resolve relative to its directory.
func (r *Runner) RunFile(path string) error {
	scn, absPath, err := r.loadScenario(path)
	if err != nil {
		return err
	}
	r.log.Info().
		Str("file", absPath).
		Str("scenario", scn.Name).
		Msg("running scenario")
	return r.runSteps(scn.Steps, filepath.Dir(absPath))
}

// RunScenario executes an already parsed scenario. The baseDir anchors
// externalSteps paths; pass "" when the scenario references none.
func (r *Runner) RunScenario(scn *Scenario, baseDir string) error {
	return r.runSteps(scn.Steps, baseDir)
}

// loadScenario parses a scenario file, consulting the cache first.
func (r *Runner) loadScenario(path string) (*Scenario, string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", vmerrors.NewInterpretationErrorf("file", "cannot resolve %s: %v", path, err)
	}
	if cached, ok := r.files.Get(absPath); ok {
		return cached.(*Scenario), absPath, nil
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, "", vmerrors.NewInterpretationErrorf("file", "cannot read %s: %v", absPath, err)
	}
	scn, err := ParseScenario(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", absPath, err)
	}
	r.files.Add(absPath, scn)
	return scn, absPath, nil
}

func (r *Runner) runSteps(steps []Step, baseDir string) error {
	for i, step := range steps {
		if err := r.runStep(step, baseDir); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.stepName(), err)
		}
	}
	return nil
}

func (r *Runner) runStep(step Step, baseDir string) error {
	switch s := step.(type) {
	case *SetStateStep:
		for _, account := range s.Accounts {
			r.engine.World().PutAccount(account.Copy())
		}
		return nil
	case *TxStep:
		return r.runTxStep(s)
	case *CheckStateStep:
		return CheckWorldState(s, r.engine.World())
	case *ExternalStepsStep:
		scn, absPath, err := r.loadScenario(filepath.Join(baseDir, s.Path))
		if err != nil {
			return err
		}
		r.log.Debug().Str("file", absPath).Msg("including external steps")
		return r.runSteps(scn.Steps, filepath.Dir(absPath))
	default:
		return fmt.Errorf("unhandled step type %T", step)
	}
}

func (r *Runner) runTxStep(step *TxStep) error {
	r.log.Debug().
		Str("txId", step.TxID).
		Stringer("tx", step.Tx).
		Msg("executing transaction step")

	result, err := r.engine.ExecuteTransaction(step.Tx)
	if err != nil {
		return fmt.Errorf("tx %q: %w", step.TxID, err)
	}
	return CheckTxResult(step.TxID, step.Expect, result)
}
