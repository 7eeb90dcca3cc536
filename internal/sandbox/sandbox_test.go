package sandbox

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shell runs sources as sh scripts so the plumbing is testable without a
// Python interpreter on the machine.
func shell(t *testing.T, timeout time.Duration) *Subprocess {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	return NewSubprocess([]string{"sh"}, timeout)
}

func TestSubprocessCapturesOutput(t *testing.T) {
	s := shell(t, 5*time.Second)

	out, err := s.Run(context.Background(), "echo hello\necho oops >&2\nexit 3\n")
	require.NoError(t, err)
	assert.Equal(t, 3, out.ExitCode)
	assert.Equal(t, "hello\n", out.Stdout)
	assert.Equal(t, "oops\n", out.Stderr)
	assert.False(t, out.TimedOut)
	assert.False(t, out.Succeeded())
}

func TestSubprocessMinimalEnvironment(t *testing.T) {
	s := shell(t, 5*time.Second)

	out, err := s.Run(context.Background(), `echo "$PYTHONHASHSEED $PYTHONDONTWRITEBYTECODE"; cd ~ && test -f main.py && echo home-is-workdir`)
	require.NoError(t, err)
	assert.Equal(t, "0 1\nhome-is-workdir\n", out.Stdout)
	assert.True(t, out.Succeeded())
}

func TestSubprocessTimeout(t *testing.T) {
	s := shell(t, 100*time.Millisecond)

	out, err := s.Run(context.Background(), "sleep 5\n")
	require.NoError(t, err)
	assert.True(t, out.TimedOut)
	assert.False(t, out.Succeeded())
	assert.Less(t, out.Duration, 5*time.Second)
}

func TestSubprocessCancelled(t *testing.T) {
	s := shell(t, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, "echo never\n")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubprocessOutputLimit(t *testing.T) {
	s := shell(t, 5*time.Second)
	s.OutputLimit = 4

	out, err := s.Run(context.Background(), "echo 0123456789\n")
	require.NoError(t, err)
	assert.Equal(t, "0123", out.Stdout)
	assert.True(t, out.Truncated)
}

func TestSubprocessOutputLimitBoundsMemory(t *testing.T) {
	if _, err := exec.LookPath("head"); err != nil {
		t.Skip("head not available")
	}
	s := shell(t, 10*time.Second)
	s.OutputLimit = 1024

	out, err := s.Run(context.Background(), "head -c 5000000 /dev/zero\n")
	require.NoError(t, err)
	assert.Len(t, out.Stdout, 1024)
	assert.True(t, out.Truncated)
	assert.Equal(t, 0, out.ExitCode)
}

func TestSubprocessWithoutInterpreter(t *testing.T) {
	_, err := (&Subprocess{}).Run(context.Background(), "pass")
	assert.Error(t, err)

	_, err = NewSubprocess([]string{"roundtrip-no-such-interpreter"}, time.Second).Run(context.Background(), "pass")
	assert.Error(t, err)
}

func TestErrorClass(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{"traceback", "Traceback (most recent call last):\n  File \"main.py\", line 1, in <module>\n    1/0\nZeroDivisionError: division by zero\n", "ZeroDivisionError"},
		{"dotted", "Traceback (most recent call last):\n  ...\njson.decoder.JSONDecodeError: Expecting value\n", "json.decoder.JSONDecodeError"},
		{"bare class", "Traceback (most recent call last):\n  ...\nKeyboardInterrupt\n", "KeyboardInterrupt"},
		{"empty", "", ""},
		{"not an error", "some output that is not a traceback line\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorClass(tt.stderr))
		})
	}
}

func TestCappedBuffer(t *testing.T) {
	b := &cappedBuffer{limit: 5}
	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = b.Write([]byte("defg"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "abcde", b.String())
	assert.True(t, b.truncated)
	assert.False(t, strings.Contains(b.String(), "f"))
}

func TestCappedBufferThroughCopy(t *testing.T) {
	b := &cappedBuffer{limit: 8}
	n, err := io.Copy(b, strings.NewReader(strings.Repeat("x", 100)))
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)
	assert.Equal(t, "xxxxxxxx", b.String())
	assert.True(t, b.truncated)
}
