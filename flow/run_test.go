// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package flow

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtlkit.sh/confdb"
)

type recordingTool struct {
	name   string
	rundir string
	steps  []Step
	db     *confdb.Database
	ran    []string
}

func newRecordingTool(t *testing.T, names ...string) *recordingTool {
	tool := &recordingTool{
		name:   "recorder",
		rundir: t.TempDir(),
		db:     confdb.New(),
	}

	for _, name := range names {
		name := name
		tool.steps = append(tool.steps, NewStep(name, func(ctx context.Context, _ Tool) error {
			tool.ran = append(tool.ran, name)
			return nil
		}))
	}

	return tool
}

func (r *recordingTool) Name() string               { return r.name }
func (r *recordingTool) ConfigPrefix() string       { return "tools.recorder" }
func (r *recordingTool) Steps() []Step              { return r.steps }
func (r *recordingTool) RunDir() string             { return r.rundir }
func (r *recordingTool) EnvVars() map[string]string { return nil }
func (r *recordingTool) Database() *confdb.Database { return r.db }

func TestRunAllSteps(t *testing.T) {
	tool := newRecordingTool(t, "a", "b", "c")

	require.NoError(t, Run(context.Background(), tool))
	assert.Equal(t, []string{"a", "b", "c"}, tool.ran)
}

func TestRunDuplicateStepNames(t *testing.T) {
	tool := newRecordingTool(t, "a", "b", "a")

	err := Run(context.Background(), tool)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate step")
}

func TestRunStepFailure(t *testing.T) {
	tool := newRecordingTool(t, "a", "c")
	boom := NewStep("b", func(context.Context, Tool) error {
		return fmt.Errorf("boom")
	})
	tool.steps = append(tool.steps[:1], append([]Step{boom}, tool.steps[1:]...)...)

	err := Run(context.Background(), tool)
	require.Error(t, err)
	assert.Equal(t, []string{"a"}, tool.ran)
}

func TestReplaceHook(t *testing.T) {
	tool := newRecordingTool(t, "a", "b", "c")

	replaced := false
	hook := ReplaceHook("b", func(context.Context, Tool) error {
		replaced = true
		return nil
	})

	require.NoError(t, Run(context.Background(), tool, hook))
	assert.True(t, replaced)
	assert.Equal(t, []string{"a", "c"}, tool.ran)
}

func TestRemovalHook(t *testing.T) {
	tool := newRecordingTool(t, "a", "b", "c")

	require.NoError(t, Run(context.Background(), tool, RemovalHook("b")))
	assert.Equal(t, []string{"a", "c"}, tool.ran)
}

func TestInsertHooks(t *testing.T) {
	tool := newRecordingTool(t, "a", "b")

	var order []string
	before := NewStep("before", func(context.Context, Tool) error {
		order = append(order, "before")
		return nil
	})
	after := NewStep("after", func(context.Context, Tool) error {
		order = append(order, "after")
		return nil
	})

	require.NoError(t, Run(context.Background(), tool,
		PreInsertHook("b", before),
		PostInsertHook("a", after),
	))

	assert.Equal(t, []string{"after", "before"}, order)
	assert.Equal(t, []string{"a", "b"}, tool.ran)
}

func TestInsertHookDuplicateName(t *testing.T) {
	tool := newRecordingTool(t, "a", "b")

	err := Run(context.Background(), tool, PreInsertHook("b", NoopStep("a")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestHookUnknownTarget(t *testing.T) {
	tool := newRecordingTool(t, "a")

	err := Run(context.Background(), tool, RemovalHook("missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestPauseHooks(t *testing.T) {
	tool := newRecordingTool(t, "a", "b", "c")

	require.NoError(t, Run(context.Background(), tool, PostPauseHook("b")))
	assert.Equal(t, []string{"a", "b"}, tool.ran)

	tool = newRecordingTool(t, "a", "b", "c")

	require.NoError(t, Run(context.Background(), tool, PrePauseHook("b")))
	assert.Equal(t, []string{"a"}, tool.ran)
}

type steppingTool struct {
	*recordingTool
	between [][2]string
}

func (s *steppingTool) BetweenSteps(_ context.Context, prev, next Step) error {
	s.between = append(s.between, [2]string{prev.Name, next.Name})
	return nil
}

func TestBetweenSteps(t *testing.T) {
	tool := &steppingTool{recordingTool: newRecordingTool(t, "a", "b", "c")}

	require.NoError(t, Run(context.Background(), tool))
	assert.Equal(t, [][2]string{{"a", "b"}, {"b", "c"}}, tool.between)
}

func TestBetweenStepsBridgePause(t *testing.T) {
	tool := &steppingTool{recordingTool: newRecordingTool(t, "a", "b")}

	require.NoError(t, Run(context.Background(), tool, PostPauseHook("a")))

	// The run pauses after "a", but the between-step work still bridges
	// the steps surrounding the inserted pause.
	assert.Equal(t, []string{"a"}, tool.ran)
	assert.Equal(t, [][2]string{{"a", "b"}}, tool.between)
}

func TestBetweenStepsPauseAtEnd(t *testing.T) {
	tool := &steppingTool{recordingTool: newRecordingTool(t, "a", "b")}

	require.NoError(t, Run(context.Background(), tool, PostPauseHook("b")))

	assert.Equal(t, []string{"a", "b"}, tool.ran)
	assert.Equal(t, [][2]string{{"a", "b"}}, tool.between)
}

func TestResumeHooks(t *testing.T) {
	tool := newRecordingTool(t, "a", "b", "c")

	require.NoError(t, Run(context.Background(), tool, PreResumeHook("b")))
	assert.Equal(t, []string{"b", "c"}, tool.ran)

	tool = newRecordingTool(t, "a", "b", "c")

	require.NoError(t, Run(context.Background(), tool, PostResumeHook("b")))
	assert.Equal(t, []string{"c"}, tool.ran)
}

func TestSingleResumeHookOnly(t *testing.T) {
	tool := newRecordingTool(t, "a", "b")

	err := Run(context.Background(), tool, PreResumeHook("a"), PostResumeHook("b"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one resume hook")
}

func TestFromToHooks(t *testing.T) {
	tool := newRecordingTool(t, "a", "b", "c", "d")

	require.NoError(t, Run(context.Background(), tool, FromToHooks("b", "c")...))
	assert.Equal(t, []string{"b", "c"}, tool.ran)
}

func TestCheckInputFiles(t *testing.T) {
	dir := t.TempDir()
	v := dir + "/top.v"
	require.NoError(t, os.WriteFile(v, []byte("module top; endmodule\n"), 0o644))

	assert.NoError(t, CheckInputFiles([]string{v}, []string{".v", ".sv"}))
	assert.Error(t, CheckInputFiles([]string{dir + "/missing.v"}, []string{".v"}))
	assert.Error(t, CheckInputFiles([]string{v}, []string{".sv"}))
}
