package logs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type call struct {
	name string
	args []string
}

func fakeRunner(out string, err error, calls *[]call) Runner {
	return func(ctx context.Context, name string, args ...string) (string, error) {
		*calls = append(*calls, call{name, args})
		return out, err
	}
}

func TestTailSystemd(t *testing.T) {
	var calls []call
	tl := &Tailer{logDir: t.TempDir(), run: fakeRunner("  line one \n\n line two\n", nil, &calls)}

	res, err := tl.Tail(context.Background(), "nginx", "SystemD")
	if err != nil {
		t.Fatal(err)
	}
	if res.Type != TypeSystemd || !slices.Equal(res.Lines, []string{"line one", "line two"}) {
		t.Fatalf("result = %+v", res)
	}
	want := []string{"-u", "nginx.service", "-n", "50", "--no-pager"}
	if calls[0].name != "journalctl" || !slices.Equal(calls[0].args, want) {
		t.Fatalf("call = %+v", calls[0])
	}
}

func TestTailDocker(t *testing.T) {
	var calls []call
	tl := &Tailer{run: fakeRunner("ok\n", nil, &calls)}
	if _, err := tl.Tail(context.Background(), "redis", "docker"); err != nil {
		t.Fatal(err)
	}
	if calls[0].name != "docker" || !slices.Equal(calls[0].args, []string{"logs", "--tail", "50", "redis"}) {
		t.Fatalf("call = %+v", calls[0])
	}
}

func TestTailCustom(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "myapp.log"), []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var calls []call
	tl := &Tailer{logDir: dir, run: fakeRunner("x\n", nil, &calls)}
	if _, err := tl.Tail(context.Background(), "myapp", "custom"); err != nil {
		t.Fatal(err)
	}
	if calls[0].name != "tail" || calls[0].args[2] != filepath.Join(dir, "myapp.log") {
		t.Fatalf("call = %+v", calls[0])
	}

	if _, err := tl.Tail(context.Background(), "missing", "custom"); !errors.Is(err, ErrLogNotFound) {
		t.Fatalf("missing log = %v, want ErrLogNotFound", err)
	}
}

func TestTailErrors(t *testing.T) {
	var calls []call
	tl := &Tailer{logDir: t.TempDir(), run: fakeRunner("", errors.New("exit status 1"), &calls)}

	cases := []struct {
		app, typ string
		want     error
	}{
		{"nginx", "upstart", ErrUnknownType},
		{"", "systemd", ErrInvalidApp},
		{"../etc/passwd", "custom", ErrInvalidApp},
		{"-f", "docker", ErrInvalidApp},
		{"nginx", "systemd", ErrCommandFailed},
	}
	for _, tc := range cases {
		if _, err := tl.Tail(context.Background(), tc.app, tc.typ); !errors.Is(err, tc.want) {
			t.Fatalf("Tail(%q, %q) = %v, want %v", tc.app, tc.typ, err, tc.want)
		}
	}
}

func TestCleanLinesKeepsLastFifty(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 70; i++ {
		b.WriteString("l\n")
	}
	b.WriteString("last\n")
	lines := cleanLines(b.String())
	if len(lines) != TailLines || lines[len(lines)-1] != "last" {
		t.Fatalf("len = %d, last = %q", len(lines), lines[len(lines)-1])
	}
}
