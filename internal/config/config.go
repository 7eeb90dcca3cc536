package config

import (
	"time"

	"github.com/Masterminds/semver/v3"
	"roundtrip/internal/unparser"
)

// DefaultFile is looked up in the working directory when no --config flag
// is given.
const DefaultFile = "roundtrip.yaml"

// Config is the harness configuration. Command-line flags override it.
type Config struct {
	// Strict also fails the run on cosmetic mismatches and unsupported nodes.
	Strict bool `yaml:"strict"`

	// Jobs bounds concurrent files; 0 and 1 run sequentially.
	Jobs int `yaml:"jobs"`

	// Report is "text" or "json".
	Report string `yaml:"report"`

	// Output is the report destination; empty writes to stdout.
	Output string `yaml:"output"`

	// MetricsFile receives a prometheus textfile after each run.
	MetricsFile string `yaml:"metrics_file"`

	// Idempotence downgrades matches whose regenerated text is not a
	// fixed point of unparse(reparse(text)).
	Idempotence bool `yaml:"idempotence"`

	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	Unparse UnparseConfig `yaml:"unparse"`
	Exec    ExecConfig    `yaml:"exec"`
	Watch   WatchConfig   `yaml:"watch"`
	Log     LogConfig     `yaml:"log"`
}

type UnparseConfig struct {
	// Indent is the number of spaces per block level.
	Indent int `yaml:"indent"`

	// Target is the oldest language version the output must parse on.
	Target string `yaml:"target"`
}

// ExecConfig controls the execution tier of the comparator.
type ExecConfig struct {
	Enabled bool `yaml:"enabled"`

	// Interpreter is the argv prefix; the script path is appended.
	Interpreter []string `yaml:"interpreter"`

	Timeout     time.Duration `yaml:"timeout"`
	OutputLimit int64         `yaml:"output_limit"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

type LogConfig struct {
	// Verbosity follows commonlog: 0 is errors only, higher is noisier.
	Verbosity int `yaml:"verbosity"`

	// File receives log output; empty logs to stderr.
	File string `yaml:"file"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Report == "" {
		cfg.Report = "text"
	}
	if len(cfg.Include) == 0 {
		cfg.Include = []string{"*.py"}
	}
	if cfg.Unparse.Indent == 0 {
		cfg.Unparse.Indent = 4
	}
	if cfg.Unparse.Target == "" {
		cfg.Unparse.Target = unparser.DefaultTarget.Original()
	}
	if len(cfg.Exec.Interpreter) == 0 {
		cfg.Exec.Interpreter = []string{"python3", "-I"}
	}
	if cfg.Exec.Timeout == 0 {
		cfg.Exec.Timeout = 10 * time.Second
	}
	if cfg.Exec.OutputLimit == 0 {
		cfg.Exec.OutputLimit = 1 << 20
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 200 * time.Millisecond
	}
}

// UnparseOptions converts the unparse section. Call it on a validated
// config.
func (c *Config) UnparseOptions() (unparser.Options, error) {
	target, err := semver.NewVersion(c.Unparse.Target)
	if err != nil {
		return unparser.Options{}, err
	}
	return unparser.Options{IndentUnit: c.Unparse.Indent, Target: target}, nil
}
