package config

import (
	"bytes"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"roundtrip/internal/errors"
)

// Load reads a YAML configuration file, applies defaults and validates it.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !goerrors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, explainUnknownField(err))
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithEnvOverrides loads path, or the defaults when path is empty, and
// then applies ROUNDTRIP_* environment variables, which take precedence
// over the file.
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("after environment overrides: %w", err)
	}
	return cfg, nil
}

// Find returns DefaultFile when it exists in dir, otherwise "".
func Find(dir string) string {
	path := filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError

	str := func(name string, dst *string) {
		if val := os.Getenv(name); val != "" {
			*dst = val
		}
	}
	boolean := func(name string, dst *bool) {
		if val := os.Getenv(name); val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, FieldError{Field: name, Message: fmt.Sprintf("not a boolean: %q", val)})
				return
			}
			*dst = b
		}
	}
	integer := func(name string, dst *int) {
		if val := os.Getenv(name); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, FieldError{Field: name, Message: fmt.Sprintf("not an integer: %q", val)})
				return
			}
			*dst = i
		}
	}

	boolean("ROUNDTRIP_STRICT", &cfg.Strict)
	integer("ROUNDTRIP_JOBS", &cfg.Jobs)
	str("ROUNDTRIP_REPORT", &cfg.Report)
	str("ROUNDTRIP_OUTPUT", &cfg.Output)
	str("ROUNDTRIP_METRICS_FILE", &cfg.MetricsFile)
	boolean("ROUNDTRIP_IDEMPOTENCE", &cfg.Idempotence)
	integer("ROUNDTRIP_INDENT", &cfg.Unparse.Indent)
	str("ROUNDTRIP_TARGET", &cfg.Unparse.Target)
	boolean("ROUNDTRIP_EXEC", &cfg.Exec.Enabled)
	integer("ROUNDTRIP_VERBOSITY", &cfg.Log.Verbosity)
	str("ROUNDTRIP_LOG_FILE", &cfg.Log.File)

	if val := os.Getenv("ROUNDTRIP_INTERPRETER"); val != "" {
		cfg.Exec.Interpreter = strings.Fields(val)
	}
	if val := os.Getenv("ROUNDTRIP_TIMEOUT"); val != "" {
		d, err := ParseTimeout(val)
		if err != nil {
			errs = append(errs, FieldError{Field: "ROUNDTRIP_TIMEOUT", Message: err.Error()})
		} else {
			cfg.Exec.Timeout = d
		}
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// ParseTimeout accepts a duration ("1m30s") or a bare number of seconds
// ("2.5").
func ParseTimeout(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: want seconds or a duration such as 30s", s)
	}
	return d, nil
}

var unknownField = regexp.MustCompile(`field (\S+) not found in type (\S+)`)

// explainUnknownField adds a suggestion to yaml's unknown field errors.
func explainUnknownField(err error) error {
	m := unknownField.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	if hint := errors.DidYouMean(m[1], knownKeys(m[2])); hint != "" {
		return fmt.Errorf("%w (%s)", err, hint)
	}
	return err
}

func knownKeys(typeName string) []string {
	switch typeName {
	case "config.UnparseConfig":
		return []string{"indent", "target"}
	case "config.ExecConfig":
		return []string{"enabled", "interpreter", "timeout", "output_limit"}
	case "config.WatchConfig":
		return []string{"debounce"}
	case "config.LogConfig":
		return []string{"verbosity", "file"}
	}
	return []string{"strict", "jobs", "report", "output", "metrics_file", "idempotence",
		"include", "exclude", "unparse", "exec", "watch", "log"}
}
