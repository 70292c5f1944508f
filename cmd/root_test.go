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

package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestSchemaToolArgsNoDash(t *testing.T) {
	cmd := &cobra.Command{Use: "postgres"}
	cmd.Flags().SetInterspersed(true)
	dbname, forwarded := schemaToolArgs(cmd, []string{"mydb"})
	if dbname != "mydb" || len(forwarded) != 0 {
		t.Fatalf("got dbname=%q forwarded=%v", dbname, forwarded)
	}
}

func TestSchemaToolArgsWithDash(t *testing.T) {
	cmd := &cobra.Command{Use: "postgres"}
	cmd.SetArgs([]string{"mydb", "--", "--no-owner", "--clean"})
	cmd.RunE = func(c *cobra.Command, args []string) error {
		dbname, forwarded := schemaToolArgs(c, args)
		if dbname != "mydb" {
			t.Errorf("got dbname %q, want mydb", dbname)
		}
		if len(forwarded) != 2 || forwarded[0] != "--no-owner" || forwarded[1] != "--clean" {
			t.Errorf("got forwarded %v, want [--no-owner --clean]", forwarded)
		}
		return nil
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestNewRootCommandRegistersBackends(t *testing.T) {
	root := NewRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"postgres", "mysql", "mssql"} {
		if !names[want] {
			t.Errorf("root command missing %q subcommand", want)
		}
	}
}

func TestCommonFlagsLoggerLevel(t *testing.T) {
	cases := []struct {
		verbosity int
		want      string
	}{
		{0, "WARN"},
		{1, "INFO"},
		{2, "DEBUG"},
		{5, "DEBUG"},
	}
	for _, tc := range cases {
		f := &commonFlags{verbosity: tc.verbosity}
		if got := f.loggerLevel(); got != tc.want {
			t.Errorf("verbosity %d: got %q, want %q", tc.verbosity, got, tc.want)
		}
	}
}
