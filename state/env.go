// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mjed/compile"
	"mjed/config"
	"mjed/editor"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// set from command line, override configuration
	Overwrite bool
	Format    config.OutputFmt

	// when nil, external command from configuration is used
	Compiler compile.Compiler

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

func (e *LocalEnv) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// NewEditor returns editor session set up according to configuration.
func (e *LocalEnv) NewEditor(opts ...editor.Option) *editor.Editor {
	base := []editor.Option{editor.WithLogger(e.logger())}
	if e.Cfg != nil {
		base = append(base,
			editor.WithHistoryDepth(e.Cfg.Editor.HistoryDepth),
			editor.WithIndent(e.Cfg.Editor.Indent),
		)
	}
	return editor.New(append(base, opts...)...)
}

// GetCompiler returns compiler to render documents with.
func (e *LocalEnv) GetCompiler() compile.Compiler {
	if e.Compiler != nil {
		return e.Compiler
	}
	if e.Cfg == nil {
		return compile.NewCommand("", nil, 0, e.logger())
	}
	c := e.Cfg.Compiler
	return compile.NewCommand(c.Command, c.Args, c.Timeout, e.logger())
}
