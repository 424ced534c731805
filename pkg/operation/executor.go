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

package operation

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/mediamerge/pkg/compare"
	"github.com/walteh/mediamerge/pkg/config"
	"github.com/walteh/mediamerge/pkg/fsinfo"
	"github.com/walteh/mediamerge/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Classifier decides whether src duplicates the file at dst
type Classifier interface {
	Classify(ctx context.Context, src fsinfo.File, dst string) compare.Result
}

// 🔧 Options configures an Executor
type Options struct {
	Operation  config.Operation
	Conflict   config.ConflictPolicy
	Classifier Classifier // required for ConflictOverwriteIfIdentical
	Logger     *zerolog.Logger
}

// 📋 Result is what Execute did with one file
type Result struct {
	Outcome status.Outcome
	Reason  string
	Err     error // set when Outcome is status.OutcomeFailed
}

// 🏃 Executor performs the file operation chosen by the merge policy
type Executor struct {
	operation  config.Operation
	conflict   config.ConflictPolicy
	classifier Classifier
	logger     *zerolog.Logger
}

// 🏭 New creates an executor
func New(opts Options) (*Executor, error) {
	if !opts.Operation.Valid() {
		return nil, errors.Errorf("merge operation %d: %w", int(opts.Operation), config.ErrInvalidPolicy)
	}
	if !opts.Conflict.Valid() {
		return nil, errors.Errorf("conflict policy %d: %w", int(opts.Conflict), config.ErrInvalidPolicy)
	}
	if opts.Conflict == config.ConflictOverwriteIfIdentical && opts.Classifier == nil {
		return nil, errors.Errorf("classifier is required for %s", opts.Conflict)
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	return &Executor{
		operation:  opts.Operation,
		conflict:   opts.Conflict,
		classifier: opts.Classifier,
		logger:     opts.Logger,
	}, nil
}

// 🎯 Execute applies the conflict policy and the operation for src at dst.
// Failures are logged and reported in the result, never returned.
func (e *Executor) Execute(ctx context.Context, src fsinfo.File, dst string) Result {
	logger := e.logger.With().Str("source", src.Path).Str("destination", dst).Logger()

	exists, err := destinationExists(dst)
	if err != nil {
		return failed(&logger, "checking destination", err)
	}

	if exists {
		same, err := sameFile(src.Path, dst)
		if err != nil {
			return failed(&logger, "comparing source and destination", err)
		}
		if same {
			logger.Info().Msg("source is the destination, skipping")
			return Result{Outcome: status.OutcomeSkipped, Reason: "source is the destination"}
		}
	}

	overwrite := false
	if exists {
		switch e.conflict {
		case config.ConflictDeleteSource:
			if err := os.Remove(src.Path); err != nil {
				return failed(&logger, "deleting source", err)
			}
			logger.Info().Msg("destination exists, deleted source")
			return Result{Outcome: status.OutcomeSourceDeleted, Reason: "destination exists"}
		case config.ConflictOverwriteAlways:
			overwrite = true
		case config.ConflictOverwriteIfIdentical:
			res := e.classifier.Classify(ctx, src, dst)
			switch res {
			case compare.Identical:
				overwrite = true
			case compare.DestinationMissing:
				// removed since the existence check
			default:
				logger.Info().Str("classification", res.String()).Msg("destination differs, skipping")
				return Result{Outcome: status.OutcomeSkipped, Reason: "destination differs"}
			}
		case config.ConflictSkip:
			logger.Info().Msg("destination exists, skipping")
			return Result{Outcome: status.OutcomeSkipped, Reason: "destination exists"}
		default:
			logger.Error().Int("policy", int(e.conflict)).Msg("unknown conflict policy, skipping")
			return Result{Outcome: status.OutcomeSkipped, Reason: "unknown conflict policy"}
		}
	}

	switch e.operation {
	case config.OperationCopy:
		if err := copyFile(src, dst, overwrite); err != nil {
			return failed(&logger, "copying file", err)
		}
		logger.Info().Bool("overwrite", overwrite).Msg("copied")
		return Result{Outcome: status.OutcomeCopied}
	case config.OperationMove:
		if err := moveFile(&logger, src, dst, overwrite); err != nil {
			return failed(&logger, "moving file", err)
		}
		logger.Info().Bool("overwrite", overwrite).Msg("moved")
		return Result{Outcome: status.OutcomeMoved}
	case config.OperationDryRun:
		logger.Info().Bool("overwrite", overwrite).Msg("dry run, would migrate")
		return Result{Outcome: status.OutcomeDryRun}
	default:
		logger.Error().Int("operation", int(e.operation)).Msg("unknown merge operation, skipping")
		return Result{Outcome: status.OutcomeSkipped, Reason: "unknown merge operation"}
	}
}

func failed(logger *zerolog.Logger, action string, err error) Result {
	err = errors.Errorf("%s: %w", action, err)
	logger.Warn().Err(err).Msg("file left unmigrated")
	return Result{Outcome: status.OutcomeFailed, Reason: action, Err: err}
}

func destinationExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// sameFile reports whether both paths name the same file, hardlinks included.
func sameFile(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return os.SameFile(ai, bi), nil
}
