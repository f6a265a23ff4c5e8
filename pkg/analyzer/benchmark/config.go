package benchmark

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/KlikkAI/verdict/pkg/metrics"
)

//go:embed config_schema.json
var configSchemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func configSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(configSchemaJSON))
		if err != nil {
			schemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("config_schema.json", doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("config_schema.json")
	})
	return schema, schemaErr
}

// ParseConfig validates a JSON benchmark config document against the
// embedded schema and decodes it.
func ParseConfig(data []byte) (*Config, error) {
	sch, err := configSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile benchmark config schema: %w", err)
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid benchmark config JSON: %w", err)
	}
	if err := sch.Validate(instance); err != nil {
		return nil, fmt.Errorf("benchmark config failed validation: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode benchmark config: %w", err)
	}
	return &cfg, nil
}

// LoadConfigFile reads and validates a benchmark config from disk.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// DefaultConfig returns a benchmark covering every tracked metric with
// conservative monorepo thresholds. Useful as a starting point; teams are
// expected to tune targets per repository.
func DefaultConfig() *Config {
	return &Config{
		Name:        "default",
		Description: "Baseline thresholds for monorepo validation runs",
		Version:     "1",
		Metrics:     metrics.All(),
		Targets: map[metrics.Metric]float64{
			metrics.BuildTime:           120,
			metrics.BundleSize:          5120,
			metrics.TestCoverage:        80,
			metrics.MemoryUsage:         2048,
			metrics.CacheHitRate:        70,
			metrics.ParallelEfficiency:  60,
			metrics.ArchitectureHealth:  70,
			metrics.CompileTime:         60,
			metrics.AutocompleteLatency: 500,
		},
		Thresholds: map[metrics.Metric]Tier{
			metrics.BuildTime:           {Excellent: 60, Good: 120, Poor: 300},
			metrics.BundleSize:          {Excellent: 2048, Good: 5120, Poor: 10240},
			metrics.TestCoverage:        {Excellent: 90, Good: 80, Poor: 60},
			metrics.MemoryUsage:         {Excellent: 1024, Good: 2048, Poor: 4096},
			metrics.CacheHitRate:        {Excellent: 90, Good: 70, Poor: 50},
			metrics.ParallelEfficiency:  {Excellent: 80, Good: 60, Poor: 40},
			metrics.ArchitectureHealth:  {Excellent: 90, Good: 70, Poor: 50},
			metrics.CompileTime:         {Excellent: 30, Good: 60, Poor: 120},
			metrics.AutocompleteLatency: {Excellent: 200, Good: 500, Poor: 1000},
		},
	}
}
