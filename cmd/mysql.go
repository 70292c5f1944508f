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
	"github.com/spf13/cobra"

	"github.com/anonydump/anonydump/internal/dump/mysql"
)

func newMySQLCommand() *cobra.Command {
	var common commonFlags

	cmd := &cobra.Command{
		Use:                   "mysql [flags] DBNAME [-- schema-tool-args...]",
		Short:                 "Dump and anonymize a MySQL database",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbname, _ := schemaToolArgs(cmd, args)

			s, err := common.loadSettings(dbname)
			if err != nil {
				return err
			}

			logger, err := common.newLogger()
			if err != nil {
				return err
			}

			coord, err := mysql.New(s.Source.DatabaseURL, s, mysql.Options{
				MysqldumpPath: common.schemaToolLocation,
				Logger:        logger,
			})
			if err != nil {
				return err
			}
			defer coord.Close()

			out, closeOut, err := common.openOutput()
			if err != nil {
				return err
			}
			defer closeOut()

			return coord.Run(cmd.Context(), out)
		},
	}

	addCommonFlags(cmd, &common)
	return cmd
}
