// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/walteh/mediamerge/cmd/mediamerge/commands"
	"github.com/walteh/mediamerge/cmd/mediamerge/opts"
	"github.com/walteh/mediamerge/pkg/log"
)

// newRootCmd builds the command tree. The returned options are filled in
// by the persistent pre-run hook, before any subcommand executes.
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *opts.RootOpts) {
	ro := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "mediamerge",
		Short: "Merge photo and video folders into one date-organized library",
		Long: `mediamerge consolidates media files from several source folders into a
single destination tree. Every file is filed under a folder derived from its
capture date, read from EXIF metadata or taken from the filesystem, and
existing destination files are never overwritten unless asked for.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(ro, stdout, stderr)
			cmd.SetContext(log.NewContext(cmd.Context(), ro.Console))
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	addRootFlags(rootCmd, ro)

	rootCmd.AddCommand(
		commands.NewMergeCmd(ro),
		newVersionCmd(),
	)

	return rootCmd, ro
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, ro *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&ro.ConfigFile, "config", "c", opts.DefaultConfigFile, "policy file path (json, yaml or hcl)")
	cmd.PersistentFlags().BoolVarP(&ro.Verbose, "verbose", "v", false, "enable debug logging")
}

// setupLogging builds the structured and console loggers for one run
func setupLogging(ro *opts.RootOpts, stdout, stderr io.Writer) {
	ro.RunID = uuid.NewString()
	ro.Logger = log.NewZerolog(stderr, ro.Verbose).With().Str("run_id", ro.RunID).Logger()
	ro.Console = log.New(stdout, ro.Logger)
}
