package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/ideabank/ideabank/pkg/domain/model"
)

// Tuning loads the optional tuning file (TOML). Without a file the
// built-in defaults apply.
type Tuning struct {
	path string
}

// SearchTuning holds the search defaults section of the tuning file.
// Zero values keep the built-in defaults.
type SearchTuning struct {
	Limit     int     `toml:"limit"`
	Threshold float64 `toml:"threshold"`
	OverFetch int     `toml:"over_fetch"`
}

type tuningFile struct {
	Index  model.IndexConfig `toml:"index"`
	Search SearchTuning      `toml:"search"`
}

// Flags returns CLI flags for tuning configuration
func (t *Tuning) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tuning-file",
			Usage:       "Path to tuning file (TOML)",
			Sources:     cli.EnvVars("IDEABANK_TUNING_FILE"),
			Destination: &t.path,
		},
	}
}

// Configure loads and validates the tuning file
func (t *Tuning) Configure() (model.IndexConfig, SearchTuning, error) {
	indexCfg := model.IndexConfig{}.Normalize()
	var searchCfg SearchTuning
	if t.path == "" {
		return indexCfg, searchCfg, nil
	}

	data, err := os.ReadFile(t.path)
	if err != nil {
		return indexCfg, searchCfg, goerr.Wrap(err, "failed to read tuning file", goerr.V("path", t.path))
	}

	var file tuningFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return indexCfg, searchCfg, goerr.Wrap(err, "failed to parse tuning file", goerr.V("path", t.path))
	}

	indexCfg = file.Index.Normalize()
	if err := indexCfg.Validate(); err != nil {
		return indexCfg, searchCfg, goerr.Wrap(err, "invalid tuning file", goerr.V("path", t.path))
	}

	searchCfg = file.Search
	if searchCfg.Limit < 0 || searchCfg.OverFetch < 0 ||
		searchCfg.Threshold < 0 || searchCfg.Threshold > 1 {
		return indexCfg, searchCfg, goerr.New("invalid search tuning",
			goerr.V("path", t.path),
			goerr.V("limit", searchCfg.Limit),
			goerr.V("threshold", searchCfg.Threshold),
			goerr.V("overFetch", searchCfg.OverFetch))
	}

	return indexCfg, searchCfg, nil
}
