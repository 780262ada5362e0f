package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ttpr0/go-contractor/updater"
)

//**********************************************************
// config
//**********************************************************

type Config struct {
	// Path prefix of all input and output files.
	Prefix      string             `yaml:"prefix"`
	Contraction ContractionOptions `yaml:"contraction"`
	Updater     updater.Config     `yaml:"updater"`
}

type ContractionOptions struct {
	// Fraction of admissible nodes to contract; the remainder forms
	// the core.
	CoreFactor float64 `yaml:"core-factor"`
	// Read node levels from disk instead of computing fresh
	// priorities.
	UseCachedPriority bool `yaml:"use-cached-priority"`
	// Worker count; 0 selects the hardware concurrency.
	Threads int `yaml:"threads"`
}

func DefaultConfig() Config {
	config := Config{}
	config.Contraction.CoreFactor = 1.0
	return config
}

func ReadConfig(file string) (Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", file, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", file, err)
	}
	return config, nil
}

func (self *Config) Validate() error {
	if self.Prefix == "" {
		return fmt.Errorf("no file prefix configured")
	}
	if self.Contraction.CoreFactor < 0.0 || self.Contraction.CoreFactor > 1.0 {
		return fmt.Errorf("core factor must be between 0.0 to 1.0 (inclusive), got %v", self.Contraction.CoreFactor)
	}
	if self.Contraction.Threads < 0 {
		return fmt.Errorf("thread count must not be negative, got %v", self.Contraction.Threads)
	}
	return nil
}
