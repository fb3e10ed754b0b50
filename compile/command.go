package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Default external compiler invocation: read stdin, write HTML to stdout.
const DefaultCommand = "mjml"

var DefaultArgs = []string{"-s", "-i"}

// Command runs external executable for every compilation.
type Command struct {
	path    string
	args    []string
	timeout time.Duration
	log     *zap.Logger
}

// NewCommand creates compiler running path with args. Empty path selects
// default compiler, non positive timeout means no limit.
func NewCommand(path string, args []string, timeout time.Duration, log *zap.Logger) *Command {
	if path == "" {
		path, args = DefaultCommand, DefaultArgs
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Command{path: path, args: args, timeout: timeout, log: log.Named("compiler")}
}

// Compile feeds markup to the command stdin. Non empty diagnostics output is
// turned into Result.Errors. Process failures are returned as error together
// with whatever partial result there is.
func (c *Command) Compile(ctx context.Context, markup string) (Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.path, c.args...)
	cmd.Stdin = strings.NewReader(markup)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	res := Result{HTML: stdout.String(), Errors: ParseErrors(stderr.String())}
	c.log.Debug("Compiler finished",
		zap.String("path", c.path),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("html", len(res.HTML)),
		zap.Int("errors", len(res.Errors)),
		zap.Error(err))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("compiler %s interrupted: %w", c.path, ctxErr)
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return res, fmt.Errorf("compiler %s exited with code %d: %w", c.path, ee.ExitCode(), err)
		}
		return res, fmt.Errorf("unable to run compiler %s: %w", c.path, err)
	}
	return res, nil
}
