// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lorekeep/lorekeep/internal/store"
)

// SchemaStatus holds migration state for reporting.
type SchemaStatus struct {
	Version uint   `json:"version"`
	Dirty   bool   `json:"dirty"`
	Applied []uint `json:"applied"`
	Pending []uint `json:"pending"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// newStatusCmd creates the status subcommand with all flags configured.
func newStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database schema status",
		Long:  `Show the current migration version and any pending migrations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	return withMigrator(cmd, func(m *store.Migrator) error {
		status, err := collectSchemaStatus(m)
		if err != nil {
			return err
		}

		var output string
		if cfg.jsonOutput {
			output, err = formatStatusJSON(status)
			if err != nil {
				return err
			}
		} else {
			output, err = formatStatusTable(status)
			if err != nil {
				return err
			}
		}

		cmd.Println(output)
		return nil
	})
}

func collectSchemaStatus(m *store.Migrator) (*SchemaStatus, error) {
	version, dirty, err := m.Version()
	if err != nil {
		return nil, err
	}
	applied, err := m.AppliedMigrations()
	if err != nil {
		return nil, err
	}
	pending, err := m.PendingMigrations()
	if err != nil {
		return nil, err
	}
	return &SchemaStatus{
		Version: version,
		Dirty:   dirty,
		Applied: applied,
		Pending: pending,
	}, nil
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(status *SchemaStatus) (string, error) {
	var buf []byte
	w := tabwriter.NewWriter((*byteWriter)(&buf), 0, 0, 2, ' ', 0)

	state := "clean"
	if status.Dirty {
		state = "dirty"
	}
	_, _ = fmt.Fprintf(w, "VERSION\tSTATE\tPENDING\n")
	_, _ = fmt.Fprintf(w, "%d\t%s\t%d\n\n", status.Version, state, len(status.Pending))

	_, _ = fmt.Fprintln(w, "MIGRATION\tSTATUS")
	for _, v := range status.Applied {
		name, err := store.MigrationName(v)
		if err != nil {
			return "", err
		}
		_, _ = fmt.Fprintf(w, "%s\tapplied\n", name)
	}
	for _, v := range status.Pending {
		name, err := store.MigrationName(v)
		if err != nil {
			return "", err
		}
		_, _ = fmt.Fprintf(w, "%s\tpending\n", name)
	}

	_ = w.Flush()
	return string(buf), nil
}

// formatStatusJSON formats the status as JSON.
func formatStatusJSON(status *SchemaStatus) (string, error) {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal status: %w", err)
	}
	return string(data), nil
}

// byteWriter is a simple writer that appends to a byte slice.
type byteWriter []byte

func (w *byteWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}
