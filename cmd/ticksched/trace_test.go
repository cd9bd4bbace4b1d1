package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracePrintsDecisions(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"trace", "--ticks", "9", "--task", "A:4:1", "--task", "B:6:1"})
	require.NoError(t, rootCmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, []string{"TICK", "TRIGGER", "DECISION", "TASK"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"4", "tick", "Launch", "A"}, strings.Fields(lines[4]))
	assert.Equal(t, []string{"6", "tick", "Launch", "B"}, strings.Fields(lines[7]))
	assert.Equal(t, []string{"9", "exit", "Idle", "background"}, strings.Fields(lines[12]))
}

func TestTraceRejectsBadTask(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"trace", "--task", "A:0"})
	assert.Error(t, rootCmd.Execute())
}
