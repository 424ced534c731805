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

// Package compare decides whether an incoming file duplicates an existing destination file.
package compare

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/mediamerge/pkg/fsinfo"
	"gitlab.com/tozd/go/errors"
)

// ⚖️ Result is the classification of a source/destination pair
type Result int

const (
	Different Result = iota
	Identical
	DestinationMissing
)

func (r Result) String() string {
	switch r {
	case Identical:
		return "identical"
	case DestinationMissing:
		return "destination missing"
	default:
		return "different"
	}
}

// 🔍 Classifier compares files by size, UTC modification time and optionally content
type Classifier struct {
	deep   bool
	logger *zerolog.Logger
}

// 🏭 NewClassifier creates a classifier. With deep set, equal metadata is
// confirmed by comparing content hashes.
func NewClassifier(deep bool, logger *zerolog.Logger) *Classifier {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Classifier{deep: deep, logger: logger}
}

// Classify compares src with the file currently at dstPath.
func (c *Classifier) Classify(ctx context.Context, src fsinfo.File, dstPath string) Result {
	dst, err := fsinfo.Stat(dstPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DestinationMissing
		}
		c.logger.Debug().Str("destination", dstPath).Err(err).Msg("unable to stat destination")
		return Different
	}
	return c.ClassifyFiles(ctx, src, dst)
}

// ClassifyFiles compares two snapshots, short-circuiting on the first difference.
// A hashing failure on either side classifies the pair as Different.
func (c *Classifier) ClassifyFiles(ctx context.Context, src, dst fsinfo.File) Result {
	if src.Size != dst.Size {
		c.logger.Debug().Int64("source_size", src.Size).Int64("destination_size", dst.Size).Msg("sizes differ")
		return Different
	}

	if !src.Modified.UTC().Equal(dst.Modified.UTC()) {
		c.logger.Debug().Time("source_modified", src.Modified.UTC()).Time("destination_modified", dst.Modified.UTC()).Msg("last-write times differ")
		return Different
	}

	if !c.deep {
		return Identical
	}

	srcHash, err := HashFile(src.Path)
	if err != nil {
		c.logger.Warn().Str("path", src.Path).Err(err).Msg("unable to compute hash")
		return Different
	}
	dstHash, err := HashFile(dst.Path)
	if err != nil {
		c.logger.Warn().Str("path", dst.Path).Err(err).Msg("unable to compute hash")
		return Different
	}
	if srcHash != dstHash {
		c.logger.Debug().Str("source_hash", srcHash).Str("destination_hash", dstHash).Msg("content hashes differ")
		return Different
	}

	return Identical
}

// 🔐 HashFile returns the lowercase hex SHA-256 digest of the file at path
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Errorf("hashing file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
