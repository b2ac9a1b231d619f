package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wren/pkg/config"
	"wren/pkg/engine"
	"wren/pkg/layout"
)

func loadPage(t *testing.T, src string) *engine.Page {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	require.NoError(t, err)
	e, err := engine.New(nil, cfg)
	require.NoError(t, err)
	p, err := e.Load(context.Background(), strings.NewReader(src))
	require.NoError(t, err)
	return p
}

func TestLayoutPageReportsUnimplemented(t *testing.T) {
	_, err := layoutPage(loadPage(t, `<p>some text</p>`))
	var u *layout.UnimplementedError
	require.ErrorAs(t, err, &u)
	assert.Equal(t, "inline formatting context", u.What)
}

func TestLayoutPage(t *testing.T) {
	root, err := layoutPage(loadPage(t, `<div></div>`))
	require.NoError(t, err)
	assert.Equal(t, 3, layout.CountBoxes(root))
}
