package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// configBuilder collects partial configs in priority order and merges them
// with later sources overriding earlier non-zero fields.
type configBuilder struct {
	defaults *StructuredConfig
	json     *StructuredConfig
	env      *StructuredConfig
	flags    *StructuredConfig

	rest []string
	err  error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range []*StructuredConfig{b.defaults, b.json, b.env, b.flags} {
		if cfg == nil {
			continue
		}
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	config.KDF = config.KDF.normalized()
	config.Export.KDF = config.Export.KDF.normalized()

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.defaults = DefaultConfig()
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg, err := parseEnv()
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.env = envCfg
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flagCfg, rest, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.flags = flagCfg
	b.rest = rest
	return b
}

// withJSON loads the file named by the flags or, failing that, the
// environment. It must run after withEnv and withFlags.
func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, cfg := range []*StructuredConfig{b.env, b.flags} {
		if cfg != nil && cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	jsonCfg.JSONFilePath = jsonPath
	b.json = jsonCfg
	return b
}
