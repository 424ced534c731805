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

// Package fsinfo takes immutable snapshots of files on disk.
package fsinfo

import (
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 📄 File is a point-in-time snapshot of a regular file
type File struct {
	Path     string    // Absolute or caller-relative path
	Name     string    // Base name
	Size     int64     // Size in bytes
	Created  time.Time // Creation (birth) time, or ModTime where unavailable
	Modified time.Time // Last-modified time
}

// 📸 Stat snapshots the file at path
func Stat(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, errors.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, errors.Errorf("stat %s: is a directory", path)
	}
	return fromInfo(path, info), nil
}

func fromInfo(path string, info os.FileInfo) File {
	return File{
		Path:     path,
		Name:     filepath.Base(path),
		Size:     info.Size(),
		Created:  birthTime(path, info),
		Modified: info.ModTime(),
	}
}

// 📂 DirExists reports whether path names an existing directory
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, errors.Errorf("stat %s: %w", path, err)
}

// 📋 Listing is the immediate content of one directory
type Listing struct {
	Files   []File   // Regular files, in directory order
	Subdirs []string // Full paths of immediate subdirectories, sorted by name
	Errors  []error  // Entries that vanished or could not be read
}

// ReadDir lists the immediate files and subdirectories of dir.
// Symbolic links to directories are not followed.
func ReadDir(dir string) (*Listing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Errorf("reading directory %s: %w", dir, err)
	}

	listing := &Listing{}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			listing.Subdirs = append(listing.Subdirs, path)
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			listing.Errors = append(listing.Errors, errors.Errorf("stat %s: %w", path, err))
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		listing.Files = append(listing.Files, fromInfo(path, info))
	}

	return listing, nil
}
