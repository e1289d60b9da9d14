package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/rankhist/internal/oracle"
)

// StructureCommand holds the flag state for the structure command.
type StructureCommand struct {
	configPath string
}

// NewStructureCommand creates the structure command. It issues the
// fetch-only oracle call and dumps the benchmark layout: the canonical
// scenario order the oracle expects overrides in, and the rank ladder.
func NewStructureCommand() *cobra.Command {
	sc := &StructureCommand{}

	cobraCmd := &cobra.Command{
		Use:   "structure",
		Short: "Fetch a benchmark's scenario order and rank ladder",
		RunE:  sc.run,
	}

	cobraCmd.Flags().StringVar(&sc.configPath, "config", "", "Config file path (default: .rankhist.yaml in CWD or $HOME)")

	registerRunFlags(cobraCmd)

	return cobraCmd
}

// structureDump is the YAML shape printed to stdout.
type structureDump struct {
	Benchmark  string   `yaml:"benchmark"`
	Difficulty string   `yaml:"difficulty"`
	Scenarios  []string `yaml:"scenarios"`
	Ranks      []string `yaml:"ranks"`
}

func (sc *StructureCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, sc.configPath)
	if err != nil {
		return err
	}

	validateErr := validateRunConfig(cfg, false)
	if validateErr != nil {
		return validateErr
	}

	rankOracle := oracle.NewProcess(cfg.Oracle.Path, cfg.SteamID, cfg.Benchmark, cfg.Difficulty, cfg.OracleTimeout())

	structure, fetchErr := rankOracle.FetchStructure(cmd.Context())
	if fetchErr != nil {
		return fmt.Errorf("fetch benchmark structure: %w", fetchErr)
	}

	rankNames := make([]string, len(structure.Ranks))
	for i, rank := range structure.Ranks {
		rankNames[i] = rank.Name
	}

	dump := structureDump{
		Benchmark:  cfg.Benchmark,
		Difficulty: cfg.Difficulty,
		Scenarios:  structure.Scenarios,
		Ranks:      rankNames,
	}

	encoder := yaml.NewEncoder(os.Stdout)

	encodeErr := encoder.Encode(dump)
	if encodeErr != nil {
		return fmt.Errorf("encode structure: %w", encodeErr)
	}

	return encoder.Close()
}
