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

// Package merge walks source folders and drives every file through date
// resolution, path expansion and the file operation.
//
// Folders are visited in the order given and files within a folder in
// ascending creation time. The suggested date carried between files is
// scoped to one folder: every folder, including each recursed subfolder,
// starts without one. A failure on one file never stops the folder or the run.
package merge

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/mediamerge/pkg/config"
	"github.com/walteh/mediamerge/pkg/fsinfo"
	"github.com/walteh/mediamerge/pkg/operation"
	"github.com/walteh/mediamerge/pkg/pathtmpl"
	"github.com/walteh/mediamerge/pkg/resolve"
	"github.com/walteh/mediamerge/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📅 Resolver picks the date a file is filed under
type Resolver interface {
	Resolve(ctx context.Context, file fsinfo.File, last resolve.Suggestion) (resolve.Date, resolve.Suggestion)
}

// 🏃 Executor applies the file operation for one file
type Executor interface {
	Execute(ctx context.Context, src fsinfo.File, dst string) operation.Result
}

// 📣 Reporter receives one entry per file decision
type Reporter interface {
	Report(ctx context.Context, e status.Entry)
}

// 🔧 Options configures a Merger
type Options struct {
	Policy   config.Policy
	Resolver Resolver
	Executor Executor
	Reporter Reporter // optional
	Logger   *zerolog.Logger
}

// 🔀 Merger runs a merge for a fixed policy
type Merger struct {
	policy   config.Policy
	template *pathtmpl.Template
	resolver Resolver
	executor Executor
	reporter Reporter
	logger   *zerolog.Logger
}

// 🏭 New creates a merger. The policy is validated here, so Run never
// sees a malformed one.
func New(opts Options) (*Merger, error) {
	if opts.Resolver == nil {
		return nil, errors.Errorf("resolver is required")
	}
	if opts.Executor == nil {
		return nil, errors.Errorf("executor is required")
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, errors.Errorf("validating policy: %w", err)
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	return &Merger{
		policy:   opts.Policy,
		template: pathtmpl.Parse(opts.Policy.Template),
		resolver: opts.Resolver,
		executor: opts.Executor,
		reporter: opts.Reporter,
		logger:   opts.Logger,
	}, nil
}

// 🎯 Run merges every folder into the destination and returns the
// per-outcome counts. The only errors are an empty folder list and
// context cancellation; per-file and per-folder failures are counted.
func (m *Merger) Run(ctx context.Context, folders []string) (status.Summary, error) {
	summary := status.Summary{}
	if len(folders) == 0 {
		return summary, config.ErrNoSources
	}

	m.logger.Info().
		Str("destination", m.policy.Destination).
		Str("template", m.policy.Template).
		Str("operation", m.policy.Operation.String()).
		Str("exists", m.policy.Conflict.String()).
		Msg("merging media folders")
	m.logger.Info().Str("sources", strings.Join(folders, ", ")).Msg("source folders")

	for _, folder := range folders {
		if err := m.processFolder(ctx, folder, folder, summary); err != nil {
			return summary, err
		}
	}

	m.logger.Info().Int("files", summary.Total()).Str("summary", summary.String()).Msg("merge complete")
	return summary, nil
}

func (m *Merger) processFolder(ctx context.Context, root, dir string, summary status.Summary) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("merge interrupted: %w", err)
	}

	exists, err := fsinfo.DirExists(dir)
	if err != nil || !exists {
		m.logger.Error().Str("folder", dir).Err(err).Msg("source folder missing, skipping")
		return nil
	}

	m.logger.Info().Str("folder", dir).Msg("processing source")

	listing, err := fsinfo.ReadDir(dir)
	if err != nil {
		m.logger.Error().Str("folder", dir).Err(err).Msg("unable to list source folder, skipping")
		return nil
	}
	for _, lerr := range listing.Errors {
		m.logger.Warn().Err(lerr).Msg("skipping unreadable entry")
	}

	files := listing.Files
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Created.Before(files[j].Created)
	})

	var last resolve.Suggestion
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("merge interrupted: %w", err)
		}
		last = m.processFile(ctx, root, file, last, summary)
	}

	if !m.policy.Recursive {
		return nil
	}
	for _, sub := range listing.Subdirs {
		if err := m.processFolder(ctx, root, sub, summary); err != nil {
			return err
		}
	}
	return nil
}

// processFile returns the suggestion for the next file of the folder.
// A panic is reported as a failure of this file only.
func (m *Merger) processFile(ctx context.Context, root string, file fsinfo.File, last resolve.Suggestion, summary status.Summary) (next resolve.Suggestion) {
	next = last
	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("processing %s: panic: %v", file.Path, r)
			m.logger.Error().Err(err).Msg("unable to process file")
			m.reportRecovered(ctx, summary, status.Entry{Source: file.Path, Outcome: status.OutcomeFailed, Reason: "panic", Err: err})
		}
	}()

	if reason, skip := m.ignored(root, file); skip {
		m.report(ctx, summary, status.Entry{Source: file.Path, Outcome: status.OutcomeIgnored, Reason: reason})
		return next
	}

	var date resolve.Date
	date, next = m.resolver.Resolve(ctx, file, last)
	if !date.Resolved() {
		m.report(ctx, summary, status.Entry{Source: file.Path, Outcome: status.OutcomeUnresolved, Reason: "no usable date"})
		return next
	}

	folder := m.template.Expand(date.Time)
	dst := filepath.Join(m.policy.Destination, nativeSeparators(folder), file.Name)
	m.logger.Debug().
		Str("file", file.Path).
		Str("strategy", date.Strategy.String()).
		Time("date", date.Time).
		Str("folder", folder).
		Msg("generated destination folder")

	res := m.executor.Execute(ctx, file, dst)
	m.report(ctx, summary, status.Entry{
		Source:      file.Path,
		Destination: dst,
		Outcome:     res.Outcome,
		Reason:      res.Reason,
		Err:         res.Err,
	})
	return next
}

func (m *Merger) ignored(root string, file fsinfo.File) (string, bool) {
	if m.policy.MediaOnly && !m.policy.Media.IsMedia(file.Name) {
		return "not a media file", true
	}
	if len(m.policy.IgnorePatterns) == 0 {
		return "", false
	}

	rel, err := filepath.Rel(root, file.Path)
	if err != nil {
		rel = file.Name
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range m.policy.IgnorePatterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			m.logger.Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			m.logger.Debug().Str("file", rel).Str("pattern", pattern).Msg("file ignored by pattern")
			return "ignored by pattern " + pattern, true
		}
	}
	return "", false
}

// report counts e once the reporter accepted it, so a panicking reporter
// leaves the file to be counted by the recovery path only.
func (m *Merger) report(ctx context.Context, summary status.Summary, e status.Entry) {
	if m.reporter != nil {
		m.reporter.Report(ctx, e)
	}
	summary[e.Outcome]++
}

// reportRecovered counts e first and survives a reporter that panics again.
func (m *Merger) reportRecovered(ctx context.Context, summary status.Summary, e status.Entry) {
	summary[e.Outcome]++
	if m.reporter == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Str("file", e.Source).Interface("panic", r).Msg("reporter failed")
		}
	}()
	m.reporter.Report(ctx, e)
}

// nativeSeparators accepts both slash styles in templates, so the default
// backslash template lays out folders on every OS.
func nativeSeparators(path string) string {
	return filepath.FromSlash(strings.ReplaceAll(path, `\`, "/"))
}
