// Copyright 2026 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd implements the anonydump CLI: a root command carrying
// the flags common to every backend, and one subcommand per backend
// (postgres, mysql, mssql) that drives that backend's dump
// coordinator.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anonydump/anonydump/internal/log"
	"github.com/anonydump/anonydump/internal/settings"
)

// commonFlags holds the flags shared by every backend subcommand.
type commonFlags struct {
	configPath         string
	outputPath         string
	acceptInvalidHosts bool
	acceptInvalidCerts bool
	verbosity          int
	schemaToolLocation string
	loggingFormat      string
}

func addCommonFlags(cmd *cobra.Command, f *commonFlags) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "./config.yml", "path to the YAML settings document")
	cmd.Flags().StringVarP(&f.outputPath, "file", "f", "", "output file path (default stdout)")
	cmd.Flags().BoolVar(&f.acceptInvalidHosts, "accept-invalid-hostnames", false, "disable TLS hostname verification")
	cmd.Flags().BoolVar(&f.acceptInvalidCerts, "accept-invalid-certs", false, "disable TLS certificate verification")
	cmd.Flags().CountVarP(&f.verbosity, "verbose", "v", "increase logging verbosity; repeatable")
	cmd.Flags().StringVar(&f.schemaToolLocation, "schema-tool", "", "path to the backend's external schema-dump tool (defaults to the tool's name on PATH)")
	cmd.Flags().StringVar(&f.loggingFormat, "logging-format", "standard", "log format: standard or JSON")
}

func (f *commonFlags) loggerLevel() string {
	switch {
	case f.verbosity >= 2:
		return log.Debug
	case f.verbosity == 1:
		return log.Info
	default:
		return log.Warn
	}
}

// newLogger builds the logger every backend subcommand threads through
// its dump coordinator run, sized to the -v/--verbose flag count.
func (f *commonFlags) newLogger() (log.Logger, error) {
	return log.NewLogger(f.loggingFormat, f.loggerLevel(), os.Stderr, os.Stderr)
}

// loadSettings reads and decodes the YAML settings document at
// f.configPath, overriding source.database_url with databaseURL when
// non-empty.
func (f *commonFlags) loadSettings(databaseURL string) (*settings.Settings, error) {
	data, err := os.ReadFile(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", f.configPath, err)
	}
	return settings.Load(data, databaseURL)
}

// openOutput opens f.outputPath for writing, or returns os.Stdout
// when outputPath is empty.
func (f *commonFlags) openOutput() (*os.File, func(), error) {
	if f.outputPath == "" {
		return os.Stdout, func() {}, nil
	}
	out, err := os.Create(f.outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file %q: %w", f.outputPath, err)
	}
	return out, func() { out.Close() }, nil
}

// NewRootCommand builds the anonydump root command with its three
// backend subcommands attached.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "anonydump",
		Short:         "Stream a database dump through a configurable anonymization pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newPostgresCommand())
	root.AddCommand(newMySQLCommand())
	root.AddCommand(newMSSQLCommand())

	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "anonydump:", err)
		return 1
	}
	return 0
}

// schemaToolArgs splits a subcommand's positional args at `--`: the
// DBNAME argument, and anything after `--`, forwarded verbatim to the
// external schema tool.
func schemaToolArgs(cmd *cobra.Command, args []string) (dbname string, forwarded []string) {
	at := cmd.ArgsLenAtDash()
	if at < 0 {
		if len(args) > 0 {
			dbname = args[0]
		}
		return dbname, nil
	}
	if at > 0 {
		dbname = args[0]
	}
	return dbname, args[at:]
}
