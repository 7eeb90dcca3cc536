package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("roundtrip.sandbox")

const (
	DefaultTimeout     = 10 * time.Second
	DefaultOutputLimit = 1 << 20
	scriptName         = "main.py"
)

// Outcome is what one execution produced.
type Outcome struct {
	ExitCode   int
	Stdout     string
	Stderr     string
	TimedOut   bool
	Truncated  bool
	ErrorClass string
	Duration   time.Duration
}

// Succeeded reports a clean exit within the time limit.
func (o Outcome) Succeeded() bool {
	return !o.TimedOut && o.ExitCode == 0
}

// Executor runs a program's source text in isolation. A non-nil error
// means the program could not be started at all.
type Executor interface {
	Run(ctx context.Context, source string) (Outcome, error)
}

// Subprocess runs each program with an external interpreter in its own
// temporary directory.
type Subprocess struct {
	// Interpreter is the argv prefix; the script path is appended.
	Interpreter []string
	Timeout     time.Duration
	OutputLimit int
}

func NewSubprocess(interpreter []string, timeout time.Duration) *Subprocess {
	return &Subprocess{
		Interpreter: interpreter,
		Timeout:     timeout,
		OutputLimit: DefaultOutputLimit,
	}
}

func (s *Subprocess) Run(ctx context.Context, source string) (Outcome, error) {
	if len(s.Interpreter) == 0 {
		return Outcome{}, errors.New("sandbox: no interpreter configured")
	}

	dir, err := os.MkdirTemp("", "roundtrip-exec-*")
	if err != nil {
		return Outcome{}, fmt.Errorf("sandbox: create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warningf("failed to remove %s: %s", dir, err)
		}
	}()

	script := filepath.Join(dir, scriptName)
	if err := os.WriteFile(script, []byte(source), 0o600); err != nil {
		return Outcome{}, fmt.Errorf("sandbox: write script: %w", err)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limit := s.OutputLimit
	if limit <= 0 {
		limit = DefaultOutputLimit
	}
	stdout := &cappedBuffer{limit: limit}
	stderr := &cappedBuffer{limit: limit}

	args := append(append([]string{}, s.Interpreter[1:]...), scriptName)
	cmd := exec.CommandContext(runCtx, s.Interpreter[0], args...)
	cmd.Dir = dir
	cmd.Env = minimalEnvironment(dir)
	cmd.Stdin = nil
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	runErr := cmd.Run()
	out := Outcome{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.truncated || stderr.truncated,
		Duration:  time.Since(start),
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		out.TimedOut = true
		out.ExitCode = -1
		log.Debugf("timed out after %s", timeout)
		return out, nil
	}
	if ctx.Err() != nil {
		return out, ctx.Err()
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr):
		out.ExitCode = exitErr.ExitCode()
	default:
		return out, fmt.Errorf("sandbox: start %s: %w", s.Interpreter[0], runErr)
	}
	out.ErrorClass = ErrorClass(out.Stderr)
	return out, nil
}

// minimalEnvironment passes PATH through and pins everything that makes
// interpreter output vary between runs.
func minimalEnvironment(home string) []string {
	return []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + home,
		"PYTHONDONTWRITEBYTECODE=1",
		"PYTHONHASHSEED=0",
		"PYTHONIOENCODING=utf-8",
	}
}

var errorLine = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)(?::|$)`)

// ErrorClass extracts the exception class from a traceback: the last
// stderr line that starts with a dotted name followed by a colon.
func ErrorClass(stderr string) string {
	lines := strings.Split(strings.TrimRight(stderr, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimRight(lines[i], "\r")
		if line == "" || strings.HasPrefix(line, " ") {
			continue
		}
		if m := errorLine.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		return ""
	}
	return ""
}

// cappedBuffer keeps the first limit bytes and discards the rest. It has
// no ReadFrom, so io.Copy from the child's pipes goes through Write.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.limit - b.buf.Len()
	if room <= 0 {
		b.truncated = len(p) > 0 || b.truncated
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}
