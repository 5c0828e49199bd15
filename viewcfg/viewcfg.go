// SPDX-License-Identifier: Unlicense OR MIT

// Package viewcfg decodes embedder-supplied YAML documents into view
// options, so hosts can keep window configuration next to their other
// deployment configuration:
//
//	title: Synth
//	width: 512
//	height: 512
//	resizable: true
//	backend: software
package viewcfg

import (
	"fmt"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/paneui/pane/backend/software"
	"github.com/paneui/pane/view"
)

// File is the YAML schema of a view configuration.
type File struct {
	Class           string `yaml:"class"`
	Title           string `yaml:"title"`
	X               int    `yaml:"x"`
	Y               int    `yaml:"y"`
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	MinWidth        int    `yaml:"min_width"`
	MinHeight       int    `yaml:"min_height"`
	MaxWidth        int    `yaml:"max_width"`
	MaxHeight       int    `yaml:"max_height"`
	Resizable       *bool  `yaml:"resizable"`
	IgnoreKeyRepeat bool   `yaml:"ignore_key_repeat"`
	AlwaysOnTop     bool   `yaml:"always_on_top"`
	Backend         string `yaml:"backend"`
}

// backends are the backend identifiers this adapter can instantiate.
var backends = []string{"", "stub", "software"}

// Parse decodes a YAML view configuration into options for view.New.
func Parse(data []byte) ([]view.Option, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("viewcfg: parsing configuration: %w", err)
	}
	return f.Options()
}

// Options converts the decoded file into view options.
func (f *File) Options() ([]view.Option, error) {
	if !slices.Contains(backends, f.Backend) {
		return nil, fmt.Errorf("viewcfg: unknown backend %q", f.Backend)
	}
	if f.Width < 0 || f.Height < 0 {
		return nil, fmt.Errorf("viewcfg: window size %dx%d must be positive", f.Width, f.Height)
	}
	if (f.Width == 0) != (f.Height == 0) {
		return nil, fmt.Errorf("viewcfg: width and height must be set together")
	}
	if f.MinWidth < 0 || f.MinHeight < 0 || f.MaxWidth < 0 || f.MaxHeight < 0 {
		return nil, fmt.Errorf("viewcfg: size constraints must not be negative")
	}

	var opts []view.Option
	if f.Class != "" {
		opts = append(opts, view.Class(f.Class))
	}
	if f.Title != "" {
		opts = append(opts, view.Title(f.Title))
	}
	if f.Width > 0 {
		opts = append(opts, view.Size(f.Width, f.Height))
	}
	if f.X != 0 || f.Y != 0 {
		opts = append(opts, view.Position(f.X, f.Y))
	}
	if f.MinWidth > 0 || f.MinHeight > 0 {
		opts = append(opts, view.MinSize(f.MinWidth, f.MinHeight))
	}
	if f.MaxWidth > 0 || f.MaxHeight > 0 {
		opts = append(opts, view.MaxSize(f.MaxWidth, f.MaxHeight))
	}
	if f.Resizable != nil {
		opts = append(opts, view.Resizable(*f.Resizable))
	}
	if f.IgnoreKeyRepeat {
		opts = append(opts, view.IgnoreKeyRepeat(true))
	}
	if f.AlwaysOnTop {
		opts = append(opts, view.AlwaysOnTop(true))
	}
	switch f.Backend {
	case "software":
		opts = append(opts, view.UseBackend(software.New()))
	case "stub":
		opts = append(opts, view.UseBackend(view.StubBackend()))
	}
	return opts, nil
}
