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

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/mediamerge/cmd/mediamerge/opts"
	"github.com/walteh/mediamerge/pkg/compare"
	"github.com/walteh/mediamerge/pkg/config"
	"github.com/walteh/mediamerge/pkg/log"
	"github.com/walteh/mediamerge/pkg/merge"
	"github.com/walteh/mediamerge/pkg/metadata"
	"github.com/walteh/mediamerge/pkg/operation"
	"github.com/walteh/mediamerge/pkg/resolve"
	"github.com/walteh/mediamerge/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// mergeFlags mirrors the policy fields settable from the command line
type mergeFlags struct {
	sources []string
	policy  config.Policy
}

// NewMergeCmd creates the merge command
func NewMergeCmd(ro *opts.RootOpts) *cobra.Command {
	mf := &mergeFlags{policy: config.DefaultPolicy()}

	cmd := &cobra.Command{
		Use:   "merge [flags] [source...]",
		Short: "Merge source folders into the destination library",
		Long: `Merge walks every source folder and files each media file under the
destination, in a folder built from its capture date. It will:
1. Resolve a date from EXIF, the folder's last capture date or file timestamps
2. Expand the folder format with that date
3. Apply the exists policy when the destination file is already there
4. Copy, move or only report the file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := append(append([]string(nil), mf.sources...), args...)
			if len(sources) == 0 {
				return config.ErrNoSources
			}

			policy, err := buildPolicy(cmd, ro, mf)
			if err != nil {
				return err
			}

			return runMerge(cmd, ro, policy, sources)
		},
	}

	p := &mf.policy
	flags := cmd.Flags()
	flags.VarP(&p.Operation, "merge-style", "m", "merge operation: Copy, Move or DryRun")
	flags.StringArrayVarP(&mf.sources, "source", "s", nil, "source folder, may be repeated")
	flags.BoolVarP(&p.Recursive, "recursive", "r", p.Recursive, "descend into subfolders")
	flags.BoolVar(&p.UseCaptureDate, "use-capture-date", p.UseCaptureDate, "use the EXIF capture date")
	flags.BoolVar(&p.UseSuggestedDate, "use-suggested-date", p.UseSuggestedDate, "reuse the folder's last capture date for files without one")
	flags.BoolVar(&p.UseCreatedDate, "use-created-date", p.UseCreatedDate, "fall back to the file creation time")
	flags.BoolVar(&p.UseModifiedDate, "use-modified-date", p.UseModifiedDate, "fall back to the file modification time")
	flags.StringVarP(&p.Destination, "output", "o", p.Destination, "destination root folder")
	flags.StringVarP(&p.Template, "folder-format", "f", p.Template, "destination folder format, date patterns in braces")
	flags.Var(&p.Conflict, "exists", "when the destination exists: Skip, OverwriteIfIdentical, OverwriteAlways or DeleteSource")
	flags.BoolVar(&p.DeepCompare, "binary", p.DeepCompare, "compare file contents when checking for identical files")
	flags.BoolVar(&p.MediaOnly, "media-only", p.MediaOnly, "only process files with a known image or video extension")
	flags.StringArrayVar(&p.IgnorePatterns, "ignore", nil, "glob of source-relative paths to skip, may be repeated")

	return cmd
}

// buildPolicy layers defaults, the policy file and explicitly set flags
func buildPolicy(cmd *cobra.Command, ro *opts.RootOpts, mf *mergeFlags) (config.Policy, error) {
	ctx := ro.Logger.WithContext(cmd.Context())
	policy := config.DefaultPolicy()

	f, err := config.Load(ctx, ro.ConfigFile)
	switch {
	case err == nil:
		if err := f.Apply(&policy); err != nil {
			return policy, errors.Errorf("applying %s: %w", ro.ConfigFile, err)
		}
		ro.Logger.Debug().Str("path", ro.ConfigFile).Msg("policy file applied")
	case errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config"):
		ro.Logger.Debug().Str("path", ro.ConfigFile).Msg("no policy file")
	default:
		return policy, err
	}

	overrides := []struct {
		flag  string
		apply func()
	}{
		{"merge-style", func() { policy.Operation = mf.policy.Operation }},
		{"recursive", func() { policy.Recursive = mf.policy.Recursive }},
		{"use-capture-date", func() { policy.UseCaptureDate = mf.policy.UseCaptureDate }},
		{"use-suggested-date", func() { policy.UseSuggestedDate = mf.policy.UseSuggestedDate }},
		{"use-created-date", func() { policy.UseCreatedDate = mf.policy.UseCreatedDate }},
		{"use-modified-date", func() { policy.UseModifiedDate = mf.policy.UseModifiedDate }},
		{"output", func() { policy.Destination = mf.policy.Destination }},
		{"folder-format", func() { policy.Template = mf.policy.Template }},
		{"exists", func() { policy.Conflict = mf.policy.Conflict }},
		{"binary", func() { policy.DeepCompare = mf.policy.DeepCompare }},
		{"media-only", func() { policy.MediaOnly = mf.policy.MediaOnly }},
		{"ignore", func() { policy.IgnorePatterns = mf.policy.IgnorePatterns }},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			o.apply()
		}
	}

	if err := policy.Validate(); err != nil {
		return policy, err
	}
	return policy, nil
}

func runMerge(cmd *cobra.Command, ro *opts.RootOpts, policy config.Policy, sources []string) error {
	console := log.FromContext(cmd.Context())
	ctx := console.Zerolog().WithContext(cmd.Context())
	logger := console.Zerolog().With().Str("command", "merge").Logger()
	console.Infof("run %s", ro.RunID)

	if ro.Verbose {
		if raw, err := json.Marshal(policy); err == nil {
			logger.Debug().RawJSON("policy", raw).Msg("effective policy")
		}
	}

	resolver, err := resolve.New(resolve.Options{
		Reader: metadata.NewExifReader(),
		Strategies: resolve.Strategies{
			Capture:   policy.UseCaptureDate,
			Suggested: policy.UseSuggestedDate,
			Created:   policy.UseCreatedDate,
			Modified:  policy.UseModifiedDate,
		},
		Logger: &logger,
	})
	if err != nil {
		return errors.Errorf("creating date resolver: %w", err)
	}

	exec, err := operation.New(operation.Options{
		Operation:  policy.Operation,
		Conflict:   policy.Conflict,
		Classifier: compare.NewClassifier(policy.DeepCompare, &logger),
		Logger:     &logger,
	})
	if err != nil {
		return errors.Errorf("creating executor: %w", err)
	}

	tracker := status.NewTracker(console.Console(), &logger)
	merger, err := merge.New(merge.Options{
		Policy:   policy,
		Resolver: resolver,
		Executor: exec,
		Reporter: tracker,
		Logger:   &logger,
	})
	if err != nil {
		return errors.Errorf("creating merger: %w", err)
	}

	console.Header(fmt.Sprintf("%s %d source folder(s) into %s", policy.Operation, len(sources), policy.Destination))

	summary, err := merger.Run(ctx, sources)
	if sumErr := console.Summary(summary); sumErr != nil {
		logger.Warn().Err(sumErr).Msg("unable to print summary")
	}
	if err != nil {
		return errors.Errorf("running merge: %w", err)
	}

	if n := summary[status.OutcomeFailed]; n > 0 {
		console.Warningf("%d file(s) could not be migrated", n)
	}
	console.Successf("merge complete: %s", summary)
	return nil
}
