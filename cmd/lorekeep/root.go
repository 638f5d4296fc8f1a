// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lorekeep/lorekeep/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Lorekeep CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lorekeep",
		Short: "Lorekeep - ownership and authorization engine for content archives",
		Long: `Lorekeep manages profiles, posts, and collections for a content
archive, enforcing ownership, editor delegation, author attribution,
and collection membership rules on top of PostgreSQL.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	registerConfigFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

// registerConfigFlags declares flags that overlay the config file.
// Flag names mirror the YAML keys so koanf can merge them directly.
func registerConfigFlags(flags *pflag.FlagSet) {
	defaults := config.Default()
	flags.String("database.url", "", "PostgreSQL connection URL")
	flags.String("log.format", defaults.Log.Format, "log format (json or text)")
	flags.String("observability.addr", defaults.Observability.Addr, "metrics and health listen address")
}

// loadConfig builds the effective configuration for a command.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(configFile, cmd.Flags())
}
