package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"dario.cat/mergo"
)

// Source priorities. A higher priority overrides non-zero fields of a lower
// one regardless of the order the with* methods are called in.
const (
	priorityDefaults = iota
	priorityFile
	priorityEnv
	priorityFlags
)

type layer struct {
	priority int
	cfg      *StructuredConfig
}

type configBuilder struct {
	configs []layer
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]layer, 0, 4),
	}
}

func (b *configBuilder) add(priority int, cfg *StructuredConfig) {
	b.configs = append(b.configs, layer{priority: priority, cfg: cfg})
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	sort.SliceStable(b.configs, func(i, j int) bool {
		return b.configs[i].priority < b.configs[j].priority
	})

	config := new(StructuredConfig)
	for _, l := range b.configs {
		if err := mergo.Merge(config, l.cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, nil
}

func (b *configBuilder) withDefaults(cfg *StructuredConfig) *configBuilder {
	b.add(priorityDefaults, cfg)
	return b
}

// withDotEnv loads path (".env" when empty) into the process environment.
// Variables already set are left alone and a missing file is not an error.
func (b *configBuilder) withDotEnv(path string) *configBuilder {
	if err := loadDotEnv(path); err != nil {
		b.err = errors.Join(b.err, err)
	}
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.add(priorityEnv, envCfg)
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flagsCfg, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.add(priorityFlags, flagsCfg)
	return b
}

// withFile loads the config file named by path or, when path is empty, by
// the FilePath of the highest-priority source added so far.
func (b *configBuilder) withFile(path string) *configBuilder {
	if path == "" {
		best := -1
		for _, l := range b.configs {
			if l.cfg.FilePath != "" && l.priority > best {
				best = l.priority
				path = l.cfg.FilePath
			}
		}
	}
	if path == "" {
		return b
	}

	fileCfg, err := parseFile(path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	fileCfg.FilePath = path
	b.add(priorityFile, fileCfg)
	return b
}

func commandLineArgs() []string {
	if len(os.Args) < 2 {
		return nil
	}
	return os.Args[1:]
}
