// Package bench drives concurrent workloads against an lptable.Table and
// records, merges and compares the resulting throughput reports.
package bench

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config keys, shared by the YAML file, LPTBENCH_* env vars and CLI flags.
const (
	KeyName          = "name"
	KeyWorkers       = "workers"
	KeyKeysPerWorker = "keys_per_worker"
	KeyCapacity      = "capacity"
	KeyLoadFactor    = "load_factor"
	KeyKeyKind       = "key_kind"
	KeyValueKind     = "value_kind"
	KeyRemoveRatio   = "remove_ratio"
	KeyOutput        = "output"

	envPrefix = "LPTBENCH"
)

// Key kinds.
const (
	KeysSequential = "seq"
	KeysUUID       = "uuid"
)

// Value kinds.
const (
	ValuesString = "string"
	ValuesInt32  = "int32"
	ValuesFloats = "floats"
)

var (
	ErrWorkersInvalid     = errors.New("workers must be positive")
	ErrKeysInvalid        = errors.New("keys per worker must be positive")
	ErrKeyKindUnknown     = errors.New("unknown key kind")
	ErrValueKindUnknown   = errors.New("unknown value kind")
	ErrRemoveRatioInvalid = errors.New("remove ratio must be in [0, 1]")
)

// Config describes one benchmark run.
type Config struct {
	Name          string  `mapstructure:"name"`
	Workers       int     `mapstructure:"workers"`
	KeysPerWorker int     `mapstructure:"keys_per_worker"`
	Capacity      int     `mapstructure:"capacity"`
	LoadFactor    float64 `mapstructure:"load_factor"`
	KeyKind       string  `mapstructure:"key_kind"`
	ValueKind     string  `mapstructure:"value_kind"`
	RemoveRatio   float64 `mapstructure:"remove_ratio"`
	Output        string  `mapstructure:"output"`
}

// DefaultConfig mirrors the concurrency scenario of the table tests, scaled up.
func DefaultConfig() Config {
	return Config{
		Name:          "ConcurrentInsert",
		Workers:       8,
		KeysPerWorker: 10_000,
		Capacity:      16,
		LoadFactor:    0.75,
		KeyKind:       KeysSequential,
		ValueKind:     ValuesString,
		RemoveRatio:   0,
		Output:        "benchmark_history/latest.json",
	}
}

// Validate checks the workload shape. Capacity and load factor are left to
// lptable.New so its error is reported verbatim.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return ErrWorkersInvalid
	}
	if c.KeysPerWorker <= 0 {
		return ErrKeysInvalid
	}
	switch c.KeyKind {
	case KeysSequential, KeysUUID:
	default:
		return fmt.Errorf("%w: %q", ErrKeyKindUnknown, c.KeyKind)
	}
	switch c.ValueKind {
	case ValuesString, ValuesInt32, ValuesFloats:
	default:
		return fmt.Errorf("%w: %q", ErrValueKindUnknown, c.ValueKind)
	}
	if c.RemoveRatio < 0 || c.RemoveRatio > 1 {
		return ErrRemoveRatioInvalid
	}
	return nil
}

// LoadConfig resolves a Config with precedence flags > env > file > defaults.
// An empty path skips the file. Only flags that were explicitly set override
// the other sources.
func LoadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault(KeyName, def.Name)
	v.SetDefault(KeyWorkers, def.Workers)
	v.SetDefault(KeyKeysPerWorker, def.KeysPerWorker)
	v.SetDefault(KeyCapacity, def.Capacity)
	v.SetDefault(KeyLoadFactor, def.LoadFactor)
	v.SetDefault(KeyKeyKind, def.KeyKind)
	v.SetDefault(KeyValueKind, def.ValueKind)
	v.SetDefault(KeyRemoveRatio, def.RemoveRatio)
	v.SetDefault(KeyOutput, def.Output)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if bindErr != nil {
				return
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if !isConfigKey(key) {
				return
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return Config{}, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func isConfigKey(key string) bool {
	switch key {
	case KeyName, KeyWorkers, KeyKeysPerWorker, KeyCapacity, KeyLoadFactor,
		KeyKeyKind, KeyValueKind, KeyRemoveRatio, KeyOutput:
		return true
	}
	return false
}
