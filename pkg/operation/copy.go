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
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/mediamerge/pkg/fsinfo"
	"gitlab.com/tozd/go/errors"
)

// 📝 copyFile writes the content of src to dst and carries over the
// modification time. Without overwrite the destination is created
// exclusively so a file that appeared after the existence check survives.
func copyFile(src fsinfo.File, dst string, overwrite bool) (err error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	in, err := os.Open(src.Path)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	out, err := os.OpenFile(dst, flags, 0644)
	if err != nil {
		return errors.Errorf("creating destination: %w", err)
	}
	defer func() {
		if err != nil && !overwrite {
			os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying content: %w", err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing destination: %w", err)
	}

	if err := os.Chtimes(dst, src.Modified, src.Modified); err != nil {
		return errors.Errorf("setting modification time: %w", err)
	}
	return nil
}

// 🚚 moveFile renames src to dst, falling back to copy then delete when
// the rename fails, as it does across volumes. The source is removed only
// after the copy succeeded.
func moveFile(logger *zerolog.Logger, src fsinfo.File, dst string, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	renameErr := rename(src.Path, dst, overwrite)
	if renameErr == nil {
		return nil
	}
	if errors.Is(renameErr, os.ErrExist) {
		return errors.Errorf("renaming: %w", renameErr)
	}
	logger.Debug().Err(renameErr).Msg("rename failed, falling back to copy")

	if err := copyFile(src, dst, overwrite); err != nil {
		return err
	}
	if err := os.Remove(src.Path); err != nil {
		return errors.Errorf("removing source after copy, duplicate left in place: %w", err)
	}
	return nil
}
