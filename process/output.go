package process

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"mjed/config"
	"mjed/doc"
	"mjed/schema"
	"mjed/state"
)

// Values is a struct that holds variables we make available for output name
// template expansion.
type Values struct {
	Title  string
	Source string
	Format string
}

// documentTitle returns content of the first mj-title in document head.
func documentTitle(d *doc.Document) string {
	for _, id := range d.Children(doc.HeadID) {
		if n, ok := d.Get(id); ok && n.Tag == schema.TagTitle {
			return strings.TrimSpace(n.Content)
		}
	}
	return ""
}

func sourceName(src string) string {
	if src == "" || src == "-" {
		return "stdin"
	}
	return strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
}

func expandNameTemplate(field string, values Values) (string, error) {
	tmpl, err := template.New(string(config.OutputNameTemplateFieldName)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", config.OutputNameTemplateFieldName, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildFileName returns output file name produced by configured template.
// When template fails or expands to nothing source name is used.
func buildFileName(d *doc.Document, src string, env *state.LocalEnv) string {
	values := Values{
		Title:  slug.Make(documentTitle(d)),
		Source: sourceName(src),
		Format: env.Format.String(),
	}

	name, err := expandNameTemplate(env.Cfg.Output.NameTemplate, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		name = ""
	}
	if name = strings.TrimSpace(name); name == "" {
		name = values.Source
	}
	return config.CleanFileName(name) + env.Format.Ext()
}

// outputPath returns destination file for the result. Empty path means
// standard output. Existing directory gets file name from the template, HTML
// is never sent to standard output and goes to working directory instead.
func outputPath(d *doc.Document, src, dst string, env *state.LocalEnv) (string, error) {
	if dst == "" {
		if env.Format != config.OutputFmtHtml {
			return "", nil
		}
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("unable to get working directory: %w", err)
		}
		dst = wd
	}
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		return filepath.Join(dst, buildFileName(d, src, env)), nil
	}
	return dst, nil
}

// writeResult puts data to the destination produced by outputPath.
func writeResult(dst string, data []byte, env *state.LocalEnv) error {
	if dst == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("unable to write result: %w", err)
		}
		return nil
	}
	if _, err := os.Stat(dst); err == nil && !env.Overwrite {
		return fmt.Errorf("output file already exists: %s", dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}
	env.Rpt.Store("output/"+filepath.Base(dst), dst)
	return nil
}
