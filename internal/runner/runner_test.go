package runner

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"roundtrip/internal/compare"
	"roundtrip/internal/errors"
	"roundtrip/internal/metrics"
	"roundtrip/internal/sandbox"
	"roundtrip/internal/unparser"
)

// corpus writes files relative to a fresh temp dir and returns its path.
func corpus(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

var sampleCorpus = map[string]string{
	"mult.py":        "x = 3 * 2\nprint(x)\n",
	"pkg/force.py":   "print(\"may the force be with you\")\n",
	"pkg/nested.py":  "def f(xs):\n    if xs:\n        for x in xs:\n            print(x)\n    else:\n        return None\n",
	"broken.py":      "def (:\n",
	"walrus.py":      "if (n := 10) > 5:\n    pass\n",
	".cache/skip.py": "x = 1\n",
	"README.txt":     "not python\n",
}

func TestDiscover(t *testing.T) {
	root := corpus(t, sampleCorpus)

	files, err := Discover(root, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "broken.py"),
		filepath.Join(root, "mult.py"),
		filepath.Join(root, "pkg", "force.py"),
		filepath.Join(root, "pkg", "nested.py"),
		filepath.Join(root, "walrus.py"),
	}, files)

	files, err = Discover(root, nil, []string{"pkg", "broken.py"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "mult.py"), filepath.Join(root, "walrus.py")}, files)

	files, err = Discover(root, []string{"pkg/*.py"}, []string{"nested*"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "pkg", "force.py")}, files)

	files, err = Discover(filepath.Join(root, "README.txt"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "README.txt")}, files)
}

func TestDiscoverHarnessErrors(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), nil, nil)
	assert.True(t, errors.IsHarness(err))

	_, err = Discover(corpus(t, map[string]string{"a.txt": ""}), nil, nil)
	assert.True(t, errors.IsHarness(err))
	assert.Contains(t, err.Error(), "no files matching *.py")

	_, err = Discover(t.TempDir(), []string{"[bad"}, nil)
	assert.True(t, errors.IsHarness(err))
}

func TestSelected(t *testing.T) {
	root := "/corpus"
	assert.True(t, selected(root, "/corpus/a/b.py", nil, nil))
	assert.False(t, selected(root, "/corpus/.git/b.py", nil, nil))
	assert.False(t, selected(root, "/corpus/a/b.txt", nil, nil))
	assert.False(t, selected(root, "/elsewhere/b.py", nil, nil))
	assert.False(t, selected(root, "/corpus/gen/b.py", nil, []string{"gen/*"}))
}

func verdicts(r *Report) map[string]compare.Verdict {
	out := map[string]compare.Verdict{}
	for _, e := range r.Entries {
		out[filepath.ToSlash(e.Path)] = e.Verdict
	}
	return out
}

func TestRunSequential(t *testing.T) {
	root := corpus(t, sampleCorpus)

	report, err := New(Options{}).Run(context.Background(), root)
	require.NoError(t, err)

	slash := filepath.ToSlash(root)
	assert.Equal(t, map[string]compare.Verdict{
		slash + "/broken.py":     compare.ParseFailure,
		slash + "/mult.py":       compare.Match,
		slash + "/pkg/force.py":  compare.Match,
		slash + "/pkg/nested.py": compare.Match,
		slash + "/walrus.py":     compare.Match,
	}, verdicts(report))

	assert.Equal(t, Tally{Matched: 4, ParseError: 1}, report.Tally)
	assert.Equal(t, 5, report.Tally.Total())
	assert.False(t, report.Interrupted)
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.End.Before(report.Start))
	assert.Equal(t, 0, report.ExitCode(true))

	for i := 1; i < len(report.Entries); i++ {
		assert.Less(t, report.Entries[i-1].Path, report.Entries[i].Path)
	}
	for _, e := range report.Entries {
		if e.Verdict == compare.Match {
			assert.NotEmpty(t, e.Regenerated, e.Path)
		}
	}
}

func TestRunWithPythonExecution(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
	root := corpus(t, map[string]string{
		"mult.py":   "x = 3 * 2; print(x)\n",
		"force.py":  "print(\"may the force be with you\")\n",
		"raises.py": "def f(a,b):\n  return (a+b)*2\nprint(f(1, 2))\nraise ValueError(f(2, 3))\n",
		"broken.py": "def (:\n",
	})

	r := New(Options{
		Jobs:    2,
		Compare: compare.Options{Executor: sandbox.NewSubprocess([]string{"python3", "-I"}, 10*time.Second)},
	})
	report, err := r.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, Tally{Matched: 3, ParseError: 1}, report.Tally)
	assert.Equal(t, 0, report.ExitCode(true))
}

func TestRunParallelMatchesSequential(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 40; i++ {
		files[filepath.Join("d", string(rune('a'+i%26)), "f"+string(rune('a'+i/26))+".py")] = "y = (1 + 2) * 3\n"
	}
	root := corpus(t, files)

	sequential, err := New(Options{Jobs: 1}).Run(context.Background(), root)
	require.NoError(t, err)
	parallel, err := New(Options{Jobs: 8}).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, verdicts(sequential), verdicts(parallel))
	assert.Equal(t, sequential.Tally, parallel.Tally)
	require.Len(t, parallel.Entries, 40)
	for i := range parallel.Entries {
		assert.Equal(t, sequential.Entries[i].Path, parallel.Entries[i].Path)
	}
}

func TestRunUnsupportedForTarget(t *testing.T) {
	root := corpus(t, sampleCorpus)

	r := New(Options{Unparse: unparser.Options{Target: semver.MustParse("3.7")}})
	report, err := r.Run(context.Background(), root)
	require.NoError(t, err)

	got := verdicts(report)
	assert.Equal(t, compare.Unsupported, got[filepath.ToSlash(root)+"/walrus.py"])
	assert.Equal(t, 1, report.Tally.Unsupported)
	assert.Equal(t, 0, report.ExitCode(false))
	assert.Equal(t, 1, report.ExitCode(true))

	for _, e := range report.Entries {
		if e.Verdict == compare.Unsupported {
			var unsupported *errors.UnsupportedNodeError
			assert.ErrorAs(t, e.Err, &unsupported)
			assert.Contains(t, e.Detail, "requires 3.8")
		}
	}
}

func TestRunCancelled(t *testing.T) {
	root := corpus(t, sampleCorpus)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, jobs := range []int{1, 4} {
		report, err := New(Options{Jobs: jobs}).Run(ctx, root)
		require.NoError(t, err)
		assert.True(t, report.Interrupted)
		assert.Empty(t, report.Entries)
		assert.Equal(t, 0, report.Tally.Total())
	}
}

func TestRunHarnessError(t *testing.T) {
	_, err := New(Options{}).Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	var harness *errors.HarnessError
	require.ErrorAs(t, err, &harness)
	assert.Equal(t, 2, harness.ExitCode())
}

func TestRunRecordsMetrics(t *testing.T) {
	root := corpus(t, sampleCorpus)
	m := metrics.NewCollector()

	_, err := New(Options{Metrics: m, Jobs: 2}).Run(context.Background(), root)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `roundtrip_files_total{verdict="match"} 4`)
	assert.Contains(t, string(data), `roundtrip_files_total{verdict="parse_error"} 1`)
	assert.Contains(t, string(data), "roundtrip_files_in_flight 0")
	count, err := testutil.GatherAndCount(m.Registry(), "roundtrip_run_interrupted")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCheckSource(t *testing.T) {
	r := New(Options{})

	e := r.CheckSource(context.Background(), "inline.py", "x = a - (b - c)\n")
	assert.Equal(t, compare.Match, e.Verdict)
	assert.Equal(t, "x = a - (b - c)\n", e.Regenerated)

	e = r.CheckSource(context.Background(), "bad.py", "x = \xff\n")
	assert.Equal(t, compare.ParseFailure, e.Verdict)
	var parseErr *errors.ParseError
	assert.ErrorAs(t, e.Err, &parseErr)
}

func TestCheckUnreadableFile(t *testing.T) {
	e := New(Options{}).Check(context.Background(), filepath.Join(t.TempDir(), "gone.py"))
	assert.Equal(t, compare.ParseFailure, e.Verdict)
	assert.Contains(t, e.Detail, "cannot read file")
}

func TestReportExitCode(t *testing.T) {
	tests := []struct {
		name     string
		verdicts []compare.Verdict
		normal   int
		strict   int
	}{
		{"all match", []compare.Verdict{compare.Match, compare.Match}, 0, 0},
		{"cosmetic", []compare.Verdict{compare.Match, compare.CosmeticMismatch}, 0, 1},
		{"unsupported", []compare.Verdict{compare.Unsupported}, 0, 1},
		{"parse error", []compare.Verdict{compare.ParseFailure}, 0, 0},
		{"semantic", []compare.Verdict{compare.Match, compare.SemanticMismatch}, 1, 1},
		{"crash", []compare.Verdict{compare.Crash}, 1, 1},
		{"empty", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Report{}
			for i, v := range tt.verdicts {
				r.add(Entry{Path: string(rune('a' + i)), Verdict: v})
			}
			assert.Equal(t, tt.normal, r.ExitCode(false))
			assert.Equal(t, tt.strict, r.ExitCode(true))
			assert.Equal(t, tt.strict == 1, len(r.Failures(true)) > 0)
		})
	}
}

func TestTally(t *testing.T) {
	var tally Tally
	for _, v := range compare.Verdicts {
		tally.Add(v)
		tally.Add(v)
	}
	for _, v := range compare.Verdicts {
		assert.Equal(t, 2, tally.Count(v), v.String())
	}
	assert.Equal(t, 2*len(compare.Verdicts), tally.Total())
}

func TestWatch(t *testing.T) {
	root := corpus(t, map[string]string{"a.py": "x = 1\n"})
	r := New(Options{Debounce: 20 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan *Report, 16)
	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx, root, func(rep *Report) { reports <- rep })
	}()

	target := filepath.Join(root, "a.py")
	var got *Report
	require.Eventually(t, func() bool {
		_ = os.WriteFile(target, []byte("x = (1 + 2) * 3\n"), 0o644)
		_ = os.WriteFile(filepath.Join(root, "ignored.txt"), []byte("x"), 0o644)
		select {
		case got = <-reports:
			return true
		default:
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)

	require.Len(t, got.Entries, 1)
	assert.Equal(t, target, got.Entries[0].Path)
	assert.Equal(t, compare.Match, got.Entries[0].Verdict)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingRoot(t *testing.T) {
	err := New(Options{}).Watch(context.Background(), filepath.Join(t.TempDir(), "nope"), func(*Report) {})
	assert.True(t, errors.IsHarness(err))
}
