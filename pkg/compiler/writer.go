package compiler

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/flosch/pongo2/v6"

	"github.com/kuzeydev/contextual-ai/internal/logger"
)

//go:embed templates/*
var templateFiles embed.FS

var templateSet = newTemplateSet()

func newTemplateSet() *pongo2.TemplateSet {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic(err)
	}
	return pongo2.NewSet("report", pongo2.NewFSLoader(sub))
}

const (
	defaultOutputPath = "./output"
	defaultReportName = "report"
)

// Writer emits a compiled report.
type Writer interface {
	Write(r *Report) error
}

type writerFactory func(dir, name string) Writer

var writers = map[string]writerFactory{
	"Html": func(dir, name string) Writer {
		return &templateWriter{dir: dir, name: name, ext: ".html", template: "report.html"}
	},
	"Markdown": func(dir, name string) Writer {
		return &templateWriter{dir: dir, name: name, ext: ".md", template: "report.md"}
	},
}

func (c *Controller) newWriter(spec Spec) (Writer, error) {
	factory, ok := writers[spec.Class]
	if !ok {
		return nil, fmt.Errorf("compiler: unknown writer class %q", spec.Class)
	}
	dir := c.outputDir
	if dir == "" {
		dir = c.cfg.resolve(attrString(spec.Attr, "path", defaultOutputPath))
	}
	return factory(dir, attrString(spec.Attr, "name", defaultReportName)), nil
}

// templateWriter renders a pongo2 template into dir/name+ext and saves the
// charts into dir/name_files.
type templateWriter struct {
	dir      string
	name     string
	ext      string
	template string
}

func (w *templateWriter) Write(r *Report) error {
	assets := w.name + "_files"
	if err := os.MkdirAll(filepath.Join(w.dir, assets), 0o755); err != nil {
		return err
	}
	for i, ch := range r.charts() {
		file := fmt.Sprintf("%02d-%s.png", i+1, ch.Name)
		if err := saveChart(ch, filepath.Join(w.dir, assets, file)); err != nil {
			return fmt.Errorf("save chart %s: %w", ch.Name, err)
		}
		ch.Path = path.Join(assets, file)
	}

	tpl, err := templateSet.FromFile(w.template)
	if err != nil {
		return err
	}
	target := filepath.Join(w.dir, w.name+w.ext)
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if err := tpl.ExecuteWriter(pongo2.Context{"report": r}, out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	logger.Info("wrote %s", target)
	return nil
}
