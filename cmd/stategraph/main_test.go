// Package main tests for the StateGraph CLI application
package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureOutput captures stdout output during test execution
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestMain_Version(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"stategraph", "version"}

	out := captureOutput(main)
	assert.True(t, strings.HasPrefix(out, "StateGraph "))
	assert.Contains(t, out, Version)
	assert.Contains(t, out, Commit)
}

func TestMain_Default(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"stategraph"}

	out := captureOutput(main)
	assert.Contains(t, out, "StateGraph")
	assert.Contains(t, out, "version")
}
