package env

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SurgeEnv is a per-project defaults file ("surgeenv"), committed next to
// the workload sources. Everything here is a default which command-line
// flags override.
type SurgeEnv struct {
	// GPUType is the default GPU descriptor for new jobs, like "h100" or
	// "a100-80gb".
	GPUType string `yaml:"gpuType,omitempty"`

	// Resource is the default resource requests for new jobs,
	// like {"gpu": "2", "memory": "80Gi"}.
	Resource map[string]string `yaml:"resource,omitempty"`

	// PollInterval overrides the watch cadence. Go duration expression.
	PollInterval string `yaml:"pollInterval,omitempty"`
}

func New() *SurgeEnv {
	return new(SurgeEnv)
}

// Interval returns the poll cadence, or fallback when unset or unparsable.
func (se *SurgeEnv) Interval(fallback time.Duration) time.Duration {
	if se.PollInterval == "" {
		return fallback
	}
	d, err := time.ParseDuration(se.PollInterval)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// LoadSurgeEnv reads a surgeenv file. A missing file is not an error;
// it just means no defaults.
func LoadSurgeEnv(filepath string) (*SurgeEnv, error) {
	env := SurgeEnv{}

	content, err := os.ReadFile(filepath)
	if err != nil {
		return &env, nil
	}

	err = yaml.Unmarshal(content, &env)
	if err != nil {
		return nil, err
	}

	return &env, nil
}
