package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"roundtrip/internal/errors"
)

// FieldError is a validation error for one configuration field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid configuration: " + e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid configuration (%d errors):", len(e.Errors))
	for _, err := range e.Errors {
		sb.WriteString("\n  - " + err.Error())
	}
	return sb.String()
}

var (
	reportFormats = []string{"text", "json"}
	oldestTarget  = semver.MustParse("3.0")
)

// Validate checks cfg and returns a ValidationError listing every problem.
func Validate(cfg *Config) error {
	var errs []FieldError
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.Jobs < 0 {
		add("jobs", "must not be negative, got %d", cfg.Jobs)
	}
	if !contains(reportFormats, cfg.Report) {
		msg := fmt.Sprintf("must be one of %s, got %q", strings.Join(reportFormats, ", "), cfg.Report)
		if hint := errors.DidYouMean(cfg.Report, reportFormats); hint != "" {
			msg += "; " + hint
		}
		add("report", "%s", msg)
	}
	for _, list := range []struct {
		field    string
		patterns []string
	}{{"include", cfg.Include}, {"exclude", cfg.Exclude}} {
		for _, p := range list.patterns {
			if _, err := filepath.Match(p, ""); err != nil {
				add(list.field, "bad pattern %q: %v", p, err)
			}
		}
	}

	if cfg.Unparse.Indent < 1 || cfg.Unparse.Indent > 8 {
		add("unparse.indent", "must be between 1 and 8, got %d", cfg.Unparse.Indent)
	}
	if v, err := semver.NewVersion(cfg.Unparse.Target); err != nil {
		add("unparse.target", "not a version: %q", cfg.Unparse.Target)
	} else if v.Major() != 3 || v.LessThan(oldestTarget) {
		add("unparse.target", "only 3.x targets are supported, got %s", cfg.Unparse.Target)
	}

	if len(cfg.Exec.Interpreter) == 0 {
		add("exec.interpreter", "must not be empty")
	}
	if cfg.Exec.Timeout <= 0 {
		add("exec.timeout", "must be positive, got %s", cfg.Exec.Timeout)
	}
	if cfg.Exec.OutputLimit <= 0 {
		add("exec.output_limit", "must be positive, got %d", cfg.Exec.OutputLimit)
	}
	if cfg.Watch.Debounce < 0 {
		add("watch.debounce", "must not be negative, got %s", cfg.Watch.Debounce)
	}
	if cfg.Log.Verbosity < 0 {
		add("log.verbosity", "must not be negative, got %d", cfg.Log.Verbosity)
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
