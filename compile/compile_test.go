package compile

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
)

func TestParseErrors(t *testing.T) {
	out := `
Line 8 of /tmp/in.mjml (mj-column) — Attribute foo is illegal
Line 3 (mj-text) - Attribute colr is illegal
Something else went wrong
`
	want := []Error{
		{Line: 8, TagName: "mj-column", Message: "Attribute foo is illegal"},
		{Line: 3, TagName: "mj-text", Message: "Attribute colr is illegal"},
		{Message: "Something else went wrong"},
	}
	if diff := cmp.Diff(want, ParseErrors(out)); diff != "" {
		t.Errorf("ParseErrors() mismatch (-want +got):\n%s", diff)
	}
	if ParseErrors("  \n") != nil {
		t.Error("blank output produced errors")
	}
}

func TestWithBanner(t *testing.T) {
	t.Run("inside_body", func(t *testing.T) {
		got := WithBanner("<html><head></head><body><p>x</p></body></html>", []string{"line 1 (mj-text): <bad>"})
		banner := strings.Index(got, `<body><div class="mjed-errors"`)
		content := strings.Index(got, "<p>x</p>")
		if banner < 0 || content < banner {
			t.Fatalf("banner not first in body:\n%s", got)
		}
		if !strings.Contains(got, "line 1 (mj-text): &lt;bad&gt;</div>") {
			t.Errorf("message not escaped:\n%s", got)
		}
	})

	t.Run("without_body", func(t *testing.T) {
		got := WithBanner("partial output", []string{"a", "b"})
		if !strings.HasPrefix(got, `<div class="mjed-errors"`) || !strings.HasSuffix(got, "</div>partial output") {
			t.Errorf("unexpected output:\n%s", got)
		}
		if !strings.Contains(got, "a<br/>b") {
			t.Errorf("messages not separated:\n%s", got)
		}
	})

	t.Run("no_messages", func(t *testing.T) {
		if got := WithBanner("<body></body>", nil); got != "<body></body>" {
			t.Errorf("page changed: %q", got)
		}
	})
}

func TestMessages(t *testing.T) {
	got := Messages(Result{Errors: []Error{{Line: 2, TagName: "mj-image", Message: "bad src"}, {Message: "warn"}}}, errors.New("boom"))
	want := []string{"Compilation failed: boom", "line 2 (mj-image): bad src", "warn"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Messages() mismatch (-want +got):\n%s", diff)
	}
}

// gatedCompiler echoes input once the test releases it.
type gatedCompiler struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func (g *gatedCompiler) gate(markup string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gates == nil {
		g.gates = map[string]chan struct{}{}
	}
	ch, ok := g.gates[markup]
	if !ok {
		ch = make(chan struct{})
		g.gates[markup] = ch
	}
	return ch
}

func (g *gatedCompiler) Compile(ctx context.Context, markup string) (Result, error) {
	select {
	case <-g.gate(markup):
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	if strings.Contains(markup, "broken") {
		return Result{Errors: []Error{{Line: 1, Message: "broken"}}}, nil
	}
	return Result{HTML: "<html><body>" + markup + "</body></html>"}, nil
}

func TestPreviewKeepsLatest(t *testing.T) {
	c := &gatedCompiler{}
	p := NewPreview(c, zaptest.NewLogger(t))
	ctx := context.Background()

	if _, ok := p.Latest(); ok {
		t.Fatal("output before any submit")
	}

	first := p.Submit(ctx, "first")
	second := p.Submit(ctx, "second")
	if second <= first {
		t.Fatalf("generations not increasing: %d, %d", first, second)
	}

	close(c.gate("second"))
	close(c.gate("first"))
	p.Wait()

	out, ok := p.Latest()
	if !ok {
		t.Fatal("no output")
	}
	if out.Input != "second" || out.Generation != second {
		t.Errorf("Latest() = %q (gen %d), want second (gen %d)", out.Input, out.Generation, second)
	}
	if out.HTML != "<html><head></head><body>second</body></html>" && out.HTML != "<html><body>second</body></html>" {
		t.Errorf("HTML = %q", out.HTML)
	}
}

func TestPreviewBanner(t *testing.T) {
	c := &gatedCompiler{}
	p := NewPreview(c, zaptest.NewLogger(t))
	close(c.gate("broken"))
	p.Submit(context.Background(), "broken")
	p.Wait()

	out, _ := p.Latest()
	if len(out.Result.Errors) != 1 || !strings.Contains(out.HTML, "line 1: broken") {
		t.Errorf("Latest() = %+v", out)
	}
}

func TestPreviewStaleInputDropped(t *testing.T) {
	c := &gatedCompiler{}
	p := NewPreview(c, zaptest.NewLogger(t))
	ctx := context.Background()

	close(c.gate("a"))
	p.Submit(ctx, "a")
	p.Wait()

	p.Submit(ctx, "b")
	cctx, cancel := context.WithCancel(ctx)
	p.Submit(cctx, "c")
	cancel()
	close(c.gate("b"))
	p.Wait()

	// "b" was superseded by "c" and "c" never finished
	out, _ := p.Latest()
	if out.Input != "a" {
		t.Errorf("Latest().Input = %q, want a", out.Input)
	}
}

func TestCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no shell available")
	}
	ctx := context.Background()

	t.Run("echo", func(t *testing.T) {
		c := NewCommand("cat", nil, time.Minute, zaptest.NewLogger(t))
		res, err := c.Compile(ctx, "<mjml></mjml>")
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if res.HTML != "<mjml></mjml>" || len(res.Errors) != 0 {
			t.Errorf("Compile() = %+v", res)
		}
	})

	t.Run("validation_errors", func(t *testing.T) {
		c := NewCommand("sh", []string{"-c", "cat; echo 'Line 2 (mj-text) — Attribute x is illegal' >&2"}, 0, zaptest.NewLogger(t))
		res, err := c.Compile(ctx, "html")
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		want := []Error{{Line: 2, TagName: "mj-text", Message: "Attribute x is illegal"}}
		if diff := cmp.Diff(want, res.Errors); diff != "" {
			t.Errorf("Errors mismatch (-want +got):\n%s", diff)
		}
		if res.HTML != "html" {
			t.Errorf("HTML = %q", res.HTML)
		}
	})

	t.Run("exit_code", func(t *testing.T) {
		c := NewCommand("sh", []string{"-c", "exit 3"}, 0, zaptest.NewLogger(t))
		_, err := c.Compile(ctx, "")
		var ee *exec.ExitError
		if !errors.As(err, &ee) || ee.ExitCode() != 3 {
			t.Errorf("Compile() error = %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		c := NewCommand("sh", []string{"-c", "exec sleep 5"}, 50*time.Millisecond, zaptest.NewLogger(t))
		_, err := c.Compile(ctx, "")
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Compile() error = %v, want deadline exceeded", err)
		}
	})

	t.Run("missing_binary", func(t *testing.T) {
		c := NewCommand("definitely-not-a-compiler-binary", nil, 0, zaptest.NewLogger(t))
		if _, err := c.Compile(ctx, ""); err == nil {
			t.Error("missing binary did not fail")
		}
	})
}
