// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile = ""
	// Keep the run hermetic: never pick up a real user config.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestMigrateCommand_Properties(t *testing.T) {
	cmd := NewMigrateCmd()

	assert.Equal(t, "migrate", cmd.Use)
	assert.Contains(t, cmd.Short, "migration", "Short description should mention migrations")
	assert.Contains(t, cmd.Long, "PostgreSQL", "Long description should mention PostgreSQL")
}

func TestMigrateCommand_HasSubcommands(t *testing.T) {
	output, err := executeCommand(t, "migrate", "--help")
	require.NoError(t, err)

	for _, sub := range []string{"up", "down", "steps", "version", "force"} {
		assert.Contains(t, output, sub, "migrate help missing %q subcommand", sub)
	}
}

func TestMigrateUp_NoDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := executeCommand(t, "migrate", "up")
	require.Error(t, err, "expected error when no database URL is configured")
	assert.Contains(t, err.Error(), "database URL")
}

func TestMigrateUp_InvalidDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "invalid://not-a-real-db")

	_, err := executeCommand(t, "migrate", "up")
	require.Error(t, err, "expected error with invalid database URL")
}

func TestMigrateDown_RequiresConfirmation(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/lorekeep")

	_, err := executeCommand(t, "migrate", "down")
	require.Error(t, err, "down without --yes must refuse to run")
	assert.Contains(t, err.Error(), "--yes")
}

func TestMigrateSteps_RequiresInteger(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/lorekeep")

	_, err := executeCommand(t, "migrate", "steps", "three")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integer")
}

func TestMigrateSteps_RequiresArgument(t *testing.T) {
	_, err := executeCommand(t, "migrate", "steps")
	require.Error(t, err, "steps without an argument should fail")
}

func TestMigrateForce_RequiresInteger(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/lorekeep")

	_, err := executeCommand(t, "migrate", "force", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integer")
}
