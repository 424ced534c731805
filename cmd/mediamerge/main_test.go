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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/mediamerge/pkg/config"
	"gitlab.com/tozd/go/errors"
)

func init() {
	color.NoColor = true
	pterm.DisableStyling()
}

// writeSource creates a source folder with one file whose timestamps are fixed
func writeSource(t *testing.T, dir, name string, stamp time.Time) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("pixels"), 0644))
	require.NoError(t, os.Chtimes(path, stamp, stamp))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestRun(t *testing.T) {
	stamp := time.Date(2022, 3, 1, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		args     func(t *testing.T, src, dest string) []string
		wantCode int
		check    func(t *testing.T, src, dest, stdout string)
	}{
		{
			name:     "no_arguments",
			args:     func(t *testing.T, src, dest string) []string { return nil },
			wantCode: exitNoSources,
		},
		{
			name:     "no_sources",
			args:     func(t *testing.T, src, dest string) []string { return []string{"merge", "-o", dest} },
			wantCode: exitNoSources,
		},
		{
			name:     "unknown_flag",
			args:     func(t *testing.T, src, dest string) []string { return []string{"merge", "--teleport", src} },
			wantCode: exitFailure,
		},
		{
			name: "bad_merge_style",
			args: func(t *testing.T, src, dest string) []string {
				return []string{"merge", "-m", "Teleport", "-o", dest, src}
			},
			wantCode: exitFailure,
		},
		{
			name:     "missing_destination",
			args:     func(t *testing.T, src, dest string) []string { return []string{"merge", "-s", src} },
			wantCode: exitFailure,
		},
		{
			name: "missing_explicit_config",
			args: func(t *testing.T, src, dest string) []string {
				return []string{"merge", "-c", filepath.Join(dest, "absent.yaml"), "-o", dest, src}
			},
			wantCode: exitFailure,
		},
		{
			name: "copy_by_modified_date",
			args: func(t *testing.T, src, dest string) []string {
				return []string{
					"merge",
					"-s", src,
					"-o", dest,
					"-f", "{yyyy}/{MM}",
					"--use-capture-date=false",
					"--use-created-date=false",
					"--use-modified-date",
				}
			},
			wantCode: exitOK,
			check: func(t *testing.T, src, dest, stdout string) {
				assert.FileExists(t, filepath.Join(dest, "2022", "03", "IMG_0001.JPG"))
				assert.FileExists(t, filepath.Join(src, "IMG_0001.JPG"), "copy keeps the source")
				assert.Contains(t, stdout, "IMG_0001.JPG")
				assert.Contains(t, stdout, "merge complete")
				assert.Contains(t, stdout, "run ", "run id is announced on the console")
			},
		},
		{
			name: "dry_run_writes_nothing",
			args: func(t *testing.T, src, dest string) []string {
				return []string{"merge", "-m", "DryRun", "--use-capture-date=false", "-o", dest, src}
			},
			wantCode: exitOK,
			check: func(t *testing.T, src, dest, stdout string) {
				assert.NoDirExists(t, dest, "dry run must not create the destination")
				assert.Contains(t, stdout, "dry-run")
			},
		},
		{
			name:     "version",
			args:     func(t *testing.T, src, dest string) []string { return []string{"version"} },
			wantCode: exitOK,
			check: func(t *testing.T, src, dest, stdout string) {
				assert.Contains(t, stdout, "mediamerge version info")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			src := filepath.Join(root, "src")
			dest := filepath.Join(root, "dest")
			writeSource(t, src, "IMG_0001.JPG", stamp)
			chdir(t, root)

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args(t, src, dest), &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code, "exit code should match\nstdout: %s\nstderr: %s", stdout.String(), stderr.String())
			if tt.check != nil {
				tt.check(t, src, dest, stdout.String())
			}
		})
	}
}

func TestRunConfigFileAndFlagPrecedence(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	fileDest := filepath.Join(root, "from-file")
	flagDest := filepath.Join(root, "from-flag")
	writeSource(t, src, "clip.mov", time.Date(2019, 8, 9, 10, 0, 0, 0, time.Local))

	cfg := filepath.Join(root, "policy.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
destination: `+fileDest+`
template: "{yyyy}"
operation: move
use_capture_date: false
use_created_date: false
use_modified_date: true
`), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"merge", "-c", cfg, "-o", flagDest, "-m", "copy", src}, &stdout, &stderr)
	require.Equal(t, exitOK, code, "stderr: %s", stderr.String())

	assert.FileExists(t, filepath.Join(flagDest, "2019", "clip.mov"), "flag destination and file template apply")
	assert.NoDirExists(t, fileDest, "file destination is overridden")
	assert.FileExists(t, filepath.Join(src, "clip.mov"), "flag operation copy overrides file move")
}

func TestRunDefaultConfigFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dest := filepath.Join(root, "dest")
	writeSource(t, src, "a.png", time.Date(2020, 1, 2, 0, 0, 0, 0, time.Local))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".mediamerge.yaml"), []byte(`
destination: `+dest+`
template: "{yyyy}-{MM}"
use_capture_date: false
use_created_date: false
use_modified_date: true
`), 0644))
	chdir(t, root)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"merge", src}, &stdout, &stderr)
	require.Equal(t, exitOK, code, "stderr: %s", stderr.String())
	assert.FileExists(t, filepath.Join(dest, "2020-01", "a.png"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitNoSources, exitCode(errors.Errorf("wrapped: %w", config.ErrNoSources)))
	assert.Equal(t, exitFailure, exitCode(errors.Errorf("wrapped: %w", config.ErrInvalidPolicy)))
	assert.Equal(t, exitFailure, exitCode(errors.New("anything else")))
}
