// SPDX-License-Identifier: Unlicense OR MIT

package viewcfg_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paneui/pane/backend/software"
	"github.com/paneui/pane/view"
	"github.com/paneui/pane/viewcfg"
)

func TestParse(t *testing.T) {
	opts, err := viewcfg.Parse([]byte(`
class: PaneSynth
title: Synth
x: 30
y: 40
width: 512
height: 384
min_width: 256
min_height: 192
resizable: false
ignore_key_repeat: true
always_on_top: true
backend: software
`))
	require.NoError(t, err)

	cfg := view.New(opts...).Config()
	assert.Equal(t, "PaneSynth", cfg.Class)
	assert.Equal(t, "Synth", cfg.Title)
	assert.Equal(t, image.Rect(30, 40, 542, 424), cfg.Frame)
	assert.Equal(t, image.Pt(256, 192), cfg.MinSize)
	assert.False(t, cfg.Resizable)
	assert.True(t, cfg.IgnoreKeyRepeat)
	assert.True(t, cfg.AlwaysOnTop)
	assert.IsType(t, &software.Backend{}, cfg.Backend)
}

func TestParseDefaults(t *testing.T) {
	opts, err := viewcfg.Parse([]byte(`title: Bare`))
	require.NoError(t, err)

	cfg := view.New(opts...).Config()
	assert.Equal(t, "Bare", cfg.Title)
	assert.Equal(t, image.Rect(0, 0, 640, 480), cfg.Frame)
	assert.True(t, cfg.Resizable, "resizable defaults to true when unset")
	assert.Nil(t, cfg.Backend)
}

func TestParseStubBackend(t *testing.T) {
	opts, err := viewcfg.Parse([]byte(`backend: stub`))
	require.NoError(t, err)
	cfg := view.New(opts...).Config()
	assert.NotNil(t, cfg.Backend)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed yaml", "title: [unclosed"},
		{"unknown backend", "backend: vulkan"},
		{"negative size", "width: -1\nheight: 100"},
		{"width without height", "width: 100"},
		{"height without width", "height: 100"},
		{"negative constraint", "min_width: -5"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			opts, err := viewcfg.Parse([]byte(test.doc))
			assert.Error(t, err)
			assert.Nil(t, opts)
		})
	}
}

func TestOptionsZeroFile(t *testing.T) {
	var f viewcfg.File
	opts, err := f.Options()
	require.NoError(t, err)
	assert.Empty(t, opts)
}
