package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"path-planner/logger/console"
)

func TestCallsBeforeInitAreDropped(t *testing.T) {
	singleton = nil
	assert.NotPanics(t, func() {
		Info("nobody listening", "k", 1)
		Warn("still nobody")
	})
}

func TestFanOutToConsole(t *testing.T) {
	var a, b bytes.Buffer
	Init(
		console.New(console.Params{Output: &a}),
		console.New(console.Params{Output: &b, Debug: true}),
	)
	defer func() { singleton = nil }()

	Info("graph built", "nodes", 42)
	Debug("only the debug backend sees this")

	assert.Contains(t, a.String(), "graph built")
	assert.Contains(t, a.String(), "nodes=42")
	assert.NotContains(t, a.String(), "only the debug backend")
	assert.Contains(t, b.String(), "only the debug backend")
}
