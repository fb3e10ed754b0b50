// Package process implements program commands: loading documents from files,
// transforming them and writing results.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mjed/compile"
	"mjed/config"
	"mjed/editor"
	"mjed/interchange"
	"mjed/state"
)

// loadEditor reads source document and brings it into editor session. "-"
// reads standard input.
func loadEditor(src, reportName string, env *state.LocalEnv, log *zap.Logger) (*editor.Editor, error) {
	var (
		el     *interchange.Element
		format interchange.Format
		err    error
	)
	if src == "-" {
		data, er := io.ReadAll(os.Stdin)
		if er != nil {
			return nil, fmt.Errorf("unable to read standard input: %w", er)
		}
		env.Rpt.StoreData(reportName, data)
		el, format, err = interchange.Load(data)
	} else {
		env.Rpt.Store(reportName, src)
		el, format, err = interchange.LoadFile(src)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load '%s': %w", src, err)
	}

	ed := env.NewEditor(editor.WithLogger(log))
	ed.LoadDocument(el)
	log.Debug("Document loaded", zap.String("source", src), zap.Stringer("format", format), zap.Int("nodes", ed.Document().Len()))

	var buf bytes.Buffer
	if err := interchange.Encode(&buf, ed.ToInterchange(), true); err == nil {
		env.Rpt.StoreData(reportName+".normalized.json", buf.Bytes())
	}
	return ed, nil
}

type producer func(ctx context.Context, ed *editor.Editor, env *state.LocalEnv, log *zap.Logger) ([]byte, error)

// run handles steps common to all single document commands.
func run(ctx context.Context, cmd *cli.Command, format config.OutputFmt, produce producer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named(cmd.Name)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	dst := cmd.Args().Get(1)
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Format = format
	env.Overwrite = cmd.Bool("overwrite") || env.Cfg.Output.Overwrite

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, env, log, produce)
}

// process is the part of run independent of command line.
func process(ctx context.Context, src, dst string, env *state.LocalEnv, log *zap.Logger, produce producer) error {
	ed, err := loadEditor(src, "input/"+filepath.Base(src), env, log)
	if err != nil {
		return err
	}
	data, err := produce(ctx, ed, env, log)
	if err != nil {
		return err
	}
	out, err := outputPath(ed.Document(), src, dst, env)
	if err != nil {
		return err
	}
	if len(out) > 0 {
		log.Debug("Writing result", zap.String("file", out))
	}
	return writeResult(out, data, env)
}

func produceJSON(_ context.Context, ed *editor.Editor, _ *state.LocalEnv, _ *zap.Logger) ([]byte, error) {
	var buf bytes.Buffer
	if err := interchange.Encode(&buf, ed.ToInterchange(), true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func produceMarkup(_ context.Context, ed *editor.Editor, _ *state.LocalEnv, _ *zap.Logger) ([]byte, error) {
	return []byte(ed.ToMarkup()), nil
}

// produceHTML compiles document. Compiler complaints are shown on top of the
// page unless strict is requested.
func produceHTML(strict bool) producer {
	return func(ctx context.Context, ed *editor.Editor, env *state.LocalEnv, log *zap.Logger) ([]byte, error) {
		res, err := env.GetCompiler().Compile(ctx, ed.ToMarkup())
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msgs := compile.Messages(res, err)
		for _, m := range msgs {
			log.Warn("Compiler reported problem", zap.String("message", m))
		}
		if strict && len(msgs) > 0 {
			if err != nil {
				return nil, fmt.Errorf("compilation failed: %w", err)
			}
			return nil, fmt.Errorf("compilation produced %d validation error(s)", len(res.Errors))
		}
		return []byte(compile.WithBanner(res.HTML, msgs)), nil
	}
}

// Normalize writes canonical interchange JSON of the source.
func Normalize(ctx context.Context, cmd *cli.Command) error {
	return run(ctx, cmd, config.OutputFmtJson, produceJSON)
}

// Format writes indented markup of the source.
func Format(ctx context.Context, cmd *cli.Command) error {
	return run(ctx, cmd, config.OutputFmtMarkup, produceMarkup)
}

// Render writes HTML produced by the external compiler.
func Render(ctx context.Context, cmd *cli.Command) error {
	return run(ctx, cmd, config.OutputFmtHtml, produceHTML(cmd.Bool("strict")))
}

// Attrs prints effective attributes of body components.
func Attrs(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named(cmd.Name)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	env.Overwrite = cmd.Bool("overwrite") || env.Cfg.Output.Overwrite

	ed, err := loadEditor(src, "input/"+filepath.Base(src), env, log)
	if err != nil {
		return err
	}
	return writeResult(cmd.Args().Get(1), []byte(DumpAttributes(ed.Document())), env)
}

// Diff prints line difference between canonical markup of two sources.
func Diff(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named(cmd.Name)

	if cmd.Args().Len() != 2 {
		return errors.New("two sources are required")
	}
	diff, err := diffSources(cmd.Args().Get(0), cmd.Args().Get(1), env, log)
	if err != nil {
		return err
	}
	if len(diff) == 0 {
		log.Info("Documents are identical")
		return nil
	}
	return writeResult("", []byte(diff), env)
}

func diffSources(a, b string, env *state.LocalEnv, log *zap.Logger) (string, error) {
	from, err := loadEditor(a, "input/1/"+filepath.Base(a), env, log)
	if err != nil {
		return "", err
	}
	to, err := loadEditor(b, "input/2/"+filepath.Base(b), env, log)
	if err != nil {
		return "", err
	}
	return DiffLines(from.ToMarkup(), to.ToMarkup()), nil
}
