package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kuzeydev/contextual-ai/internal/logger"
	"github.com/kuzeydev/contextual-ai/pkg/data"
)

// Controller compiles a Configuration into a report and hands it to its writers.
type Controller struct {
	cfg       *Configuration
	frames    map[string]*data.Frame
	outputDir string
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithOutputDir sends every writer's output to dir instead of its path attribute.
func WithOutputDir(dir string) ControllerOption {
	return func(c *Controller) { c.outputDir = dir }
}

// NewController returns a controller for cfg.
func NewController(cfg *Configuration, opts ...ControllerOption) *Controller {
	c := &Controller{cfg: cfg, frames: map[string]*data.Frame{}}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Render runs every component and then every writer.
func (c *Controller) Render() error {
	report, err := c.compile()
	if err != nil {
		return err
	}
	for _, spec := range c.cfg.Writers {
		w, err := c.newWriter(spec)
		if err != nil {
			return err
		}
		if err := w.Write(report); err != nil {
			return fmt.Errorf("compiler: writer %s: %w", spec.Class, err)
		}
	}
	return nil
}

func (c *Controller) compile() (*Report, error) {
	r := &Report{
		Name:         c.cfg.Name,
		Overview:     c.cfg.Overview,
		ContentTable: c.cfg.ContentTable,
	}
	var walk func(sections []Section, prefix string, level int) error
	walk = func(sections []Section, prefix string, level int) error {
		for i, s := range sections {
			number := strconv.Itoa(i + 1)
			if prefix != "" {
				number = prefix + "." + number
			}
			rs := &RenderedSection{
				Number:  number,
				Level:   level,
				Heading: strings.Repeat("#", level+1),
				Anchor:  anchor(number, s.Title),
				Title:   s.Title,
				Desc:    s.Desc,
			}
			r.Sections = append(r.Sections, rs)
			if s.Component != nil {
				blocks, err := c.runComponent(*s.Component)
				if err != nil {
					return fmt.Errorf("compiler: section %q: %w", s.Title, err)
				}
				rs.Blocks = blocks
				r.Summary = append(r.Summary, fmt.Sprintf("%s %s: %s", number, s.Title, s.Component.Class))
			}
			if err := walk(s.Sections, number, level+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(c.cfg.Contents, "", 1); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Controller) runComponent(spec Spec) ([]Block, error) {
	factory, ok := components[spec.Class]
	if !ok {
		return nil, fmt.Errorf("unknown component class %q", spec.Class)
	}
	logger.Debug("running component %s", spec.Class)
	return factory(c, spec.Attr)
}

// frame loads the dataset an attribute refers to, once per path.
func (c *Controller) frame(attr map[string]any) (*data.Frame, error) {
	ref := attrString(attr, "data", "")
	if !strings.HasPrefix(ref, varPrefix) {
		return nil, fmt.Errorf("attribute data must be a %q reference, got %q", varPrefix+"<path>", ref)
	}
	path := c.cfg.resolve(strings.TrimPrefix(ref, varPrefix))
	if f, ok := c.frames[path]; ok {
		return f, nil
	}
	f, err := data.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	c.frames[path] = f
	return f, nil
}
