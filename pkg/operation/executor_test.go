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
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/mediamerge/pkg/compare"
	"github.com/walteh/mediamerge/pkg/config"
	"github.com/walteh/mediamerge/pkg/fsinfo"
	"github.com/walteh/mediamerge/pkg/status"
	"gitlab.com/tozd/go/errors"
)

type fixedClassifier struct {
	result compare.Result
	calls  int
}

func (c *fixedClassifier) Classify(ctx context.Context, src fsinfo.File, dst string) compare.Result {
	c.calls++
	return c.result
}

var testModTime = time.Date(2021, 7, 4, 10, 30, 0, 0, time.UTC)

func writeFile(t *testing.T, path, content string) fsinfo.File {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, os.Chtimes(path, testModTime, testModTime))
	f, err := fsinfo.Stat(path)
	require.NoError(t, err)
	return f
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name           string
		operation      config.Operation
		conflict       config.ConflictPolicy
		classification compare.Result
		destContent    string // empty means no destination file
		removeSource   bool
		wantOutcome    status.Outcome
		wantDest       string // expected destination content, empty means absent
		wantSource     bool   // source still present afterwards
		wantClassified bool
	}{
		{
			name:        "copy_new_destination",
			operation:   config.OperationCopy,
			conflict:    config.ConflictSkip,
			wantOutcome: status.OutcomeCopied,
			wantDest:    "source",
			wantSource:  true,
		},
		{
			name:        "move_new_destination",
			operation:   config.OperationMove,
			conflict:    config.ConflictSkip,
			wantOutcome: status.OutcomeMoved,
			wantDest:    "source",
			wantSource:  false,
		},
		{
			name:        "dry_run_new_destination",
			operation:   config.OperationDryRun,
			conflict:    config.ConflictSkip,
			wantOutcome: status.OutcomeDryRun,
			wantSource:  true,
		},
		{
			name:        "skip_existing",
			operation:   config.OperationCopy,
			conflict:    config.ConflictSkip,
			destContent: "existing",
			wantOutcome: status.OutcomeSkipped,
			wantDest:    "existing",
			wantSource:  true,
		},
		{
			name:        "overwrite_always_copy",
			operation:   config.OperationCopy,
			conflict:    config.ConflictOverwriteAlways,
			destContent: "existing",
			wantOutcome: status.OutcomeCopied,
			wantDest:    "source",
			wantSource:  true,
		},
		{
			name:        "overwrite_always_dry_run",
			operation:   config.OperationDryRun,
			conflict:    config.ConflictOverwriteAlways,
			destContent: "existing",
			wantOutcome: status.OutcomeDryRun,
			wantDest:    "existing",
			wantSource:  true,
		},
		{
			name:           "overwrite_if_identical_match_moves",
			operation:      config.OperationMove,
			conflict:       config.ConflictOverwriteIfIdentical,
			classification: compare.Identical,
			destContent:    "source",
			wantOutcome:    status.OutcomeMoved,
			wantDest:       "source",
			wantSource:     false,
			wantClassified: true,
		},
		{
			name:           "overwrite_if_identical_mismatch_skips",
			operation:      config.OperationCopy,
			conflict:       config.ConflictOverwriteIfIdentical,
			classification: compare.Different,
			destContent:    "existing",
			wantOutcome:    status.OutcomeSkipped,
			wantDest:       "existing",
			wantSource:     true,
			wantClassified: true,
		},
		{
			name:        "delete_source_copy",
			operation:   config.OperationCopy,
			conflict:    config.ConflictDeleteSource,
			destContent: "existing",
			wantOutcome: status.OutcomeSourceDeleted,
			wantDest:    "existing",
			wantSource:  false,
		},
		{
			name:        "delete_source_dry_run_still_deletes",
			operation:   config.OperationDryRun,
			conflict:    config.ConflictDeleteSource,
			destContent: "existing",
			wantOutcome: status.OutcomeSourceDeleted,
			wantDest:    "existing",
			wantSource:  false,
		},
		{
			name:        "delete_source_without_destination_copies",
			operation:   config.OperationCopy,
			conflict:    config.ConflictDeleteSource,
			wantOutcome: status.OutcomeCopied,
			wantDest:    "source",
			wantSource:  true,
		},
		{
			name:         "missing_source_fails",
			operation:    config.OperationCopy,
			conflict:     config.ConflictSkip,
			removeSource: true,
			wantOutcome:  status.OutcomeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeFile(t, filepath.Join(dir, "src", "IMG_0001.JPG"), "source")
			dst := filepath.Join(dir, "dst", "2021", "2021-07-July", "IMG_0001.JPG")
			if tt.destContent != "" {
				writeFile(t, dst, tt.destContent)
			}
			if tt.removeSource {
				require.NoError(t, os.Remove(src.Path))
			}

			classifier := &fixedClassifier{result: tt.classification}
			logger := zerolog.New(zerolog.NewTestWriter(t))
			exec, err := New(Options{
				Operation:  tt.operation,
				Conflict:   tt.conflict,
				Classifier: classifier,
				Logger:     &logger,
			})
			require.NoError(t, err)

			res := exec.Execute(context.Background(), src, dst)
			assert.Equal(t, tt.wantOutcome, res.Outcome, "outcome should match")
			assert.Equal(t, tt.wantClassified, classifier.calls > 0, "classifier usage should match")

			if tt.wantOutcome == status.OutcomeFailed {
				assert.Error(t, res.Err, "failed result should carry the error")
			} else {
				assert.NoError(t, res.Err)
			}

			if tt.wantDest == "" {
				assert.NoFileExists(t, dst, "destination should not be written")
			} else {
				assert.Equal(t, tt.wantDest, readFile(t, dst), "destination content should match")
			}

			if !tt.removeSource {
				if tt.wantSource {
					assert.FileExists(t, src.Path, "source should be kept")
				} else {
					assert.NoFileExists(t, src.Path, "source should be removed")
				}
			}
		})
	}
}

func TestExecuteCopyPreservesModTime(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.mov"), "clip")
	dst := filepath.Join(dir, "out", "a.mov")

	exec, err := New(Options{Operation: config.OperationCopy, Conflict: config.ConflictSkip})
	require.NoError(t, err)

	res := exec.Execute(context.Background(), src, dst)
	require.Equal(t, status.OutcomeCopied, res.Outcome)

	got, err := fsinfo.Stat(dst)
	require.NoError(t, err)
	assert.True(t, testModTime.Equal(got.Modified), "modification time should be carried over, got %s", got.Modified)
	assert.Equal(t, src.Size, got.Size)
}

func TestCopyFileExclusive(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.jpg"), "new")
	dst := writeFile(t, filepath.Join(dir, "b.jpg"), "old")

	err := copyFile(src, dst.Path, false)
	require.Error(t, err, "exclusive create should refuse an existing file")
	assert.True(t, errors.Is(err, os.ErrExist))
	assert.Equal(t, "old", readFile(t, dst.Path), "existing destination must survive")

	require.NoError(t, copyFile(src, dst.Path, true))
	assert.Equal(t, "new", readFile(t, dst.Path))
}

func TestExecuteSourceIsDestination(t *testing.T) {
	policies := []config.ConflictPolicy{
		config.ConflictSkip,
		config.ConflictOverwriteIfIdentical,
		config.ConflictOverwriteAlways,
		config.ConflictDeleteSource,
	}
	operations := []config.Operation{config.OperationCopy, config.OperationMove}

	for _, policy := range policies {
		for _, op := range operations {
			for _, hardlink := range []bool{false, true} {
				name := policy.String() + "_" + op.String()
				if hardlink {
					name += "_hardlink"
				}
				t.Run(name, func(t *testing.T) {
					dir := t.TempDir()
					src := writeFile(t, filepath.Join(dir, "2022", "03", "a.jpg"), "keep-these-bytes")
					dst := src.Path
					if hardlink {
						dst = filepath.Join(dir, "linked.jpg")
						require.NoError(t, os.Link(src.Path, dst))
					}

					logger := zerolog.New(zerolog.NewTestWriter(t))
					exec, err := New(Options{
						Operation:  op,
						Conflict:   policy,
						Classifier: &fixedClassifier{result: compare.Identical},
						Logger:     &logger,
					})
					require.NoError(t, err)

					res := exec.Execute(context.Background(), src, dst)
					assert.Equal(t, status.OutcomeSkipped, res.Outcome)
					assert.Equal(t, "source is the destination", res.Reason)
					assert.Equal(t, "keep-these-bytes", readFile(t, src.Path), "source content must survive")
					assert.Equal(t, "keep-these-bytes", readFile(t, dst), "destination content must survive")
				})
			}
		}
	}
}

func TestMoveFileNoReplace(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("no-replace rename is only available on linux")
	}

	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "a.jpg"), "new")
	dst := writeFile(t, filepath.Join(dir, "out", "a.jpg"), "old")

	logger := zerolog.New(zerolog.NewTestWriter(t))
	err := moveFile(&logger, src, dst.Path, false)
	require.Error(t, err, "move without overwrite must not replace an existing file")
	assert.True(t, errors.Is(err, os.ErrExist))
	assert.Equal(t, "old", readFile(t, dst.Path))
	assert.Equal(t, "new", readFile(t, src.Path), "source stays when the move is refused")

	require.NoError(t, moveFile(&logger, src, dst.Path, true))
	assert.Equal(t, "new", readFile(t, dst.Path))
	assert.NoFileExists(t, src.Path)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options
		errContains string
	}{
		{
			name: "valid",
			opts: Options{Operation: config.OperationMove, Conflict: config.ConflictSkip},
		},
		{
			name:        "zero_operation",
			opts:        Options{Conflict: config.ConflictSkip},
			errContains: "merge operation 0",
		},
		{
			name:        "zero_conflict",
			opts:        Options{Operation: config.OperationCopy},
			errContains: "conflict policy 0",
		},
		{
			name:        "identical_without_classifier",
			opts:        Options{Operation: config.OperationCopy, Conflict: config.ConflictOverwriteIfIdentical},
			errContains: "classifier is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
