package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv reads the env-tagged fields of [StructuredConfig]. Unset
// variables leave their fields zero so the merge keeps lower layers.
func parseEnv() (*StructuredConfig, error) {
	cfg, err := env.ParseAs[StructuredConfig]()
	if err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	return &cfg, nil
}
