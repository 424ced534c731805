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

// Package metadata reads the tag entries embedded in media files.
package metadata

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Tag is a single metadata entry. Value is a string for textual tags and
// the raw tag bytes otherwise.
type Tag struct {
	ID    uint16
	Name  string
	Value any
}

// 📖 Reader returns the metadata tags of a file in ascending ID order.
type Reader interface {
	Read(ctx context.Context, path string) ([]Tag, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(ctx context.Context, path string) ([]Tag, error)

func (f ReaderFunc) Read(ctx context.Context, path string) ([]Tag, error) {
	return f(ctx, path)
}

// 📷 ExifReader decodes EXIF blocks from JPEG, TIFF and raw EXIF files
type ExifReader struct{}

// NewExifReader creates a new EXIF reader
func NewExifReader() *ExifReader {
	return &ExifReader{}
}

// Read implements Reader.
func (r *ExifReader) Read(ctx context.Context, path string) ([]Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening file: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// sub-IFD failures still leave the primary tags usable
		if x == nil || exif.IsCriticalError(err) {
			return nil, errors.Errorf("decoding exif: %w", err)
		}
		zerolog.Ctx(ctx).Debug().Str("path", path).Err(err).Msg("partial exif data")
	}

	w := &collector{}
	if err := x.Walk(w); err != nil {
		return nil, errors.Errorf("walking exif tags: %w", err)
	}

	sort.SliceStable(w.tags, func(i, j int) bool {
		return w.tags[i].ID < w.tags[j].ID
	})

	return w.tags, nil
}

type collector struct {
	tags []Tag
}

func (c *collector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	t := Tag{ID: tag.Id, Name: string(name)}
	if tag.Format() == tiff.StringVal {
		s, err := tag.StringVal()
		if err != nil {
			t.Value = tag.Val
		} else {
			t.Value = strings.TrimRight(s, "\x00")
		}
	} else {
		t.Value = tag.Val
	}
	c.tags = append(c.tags, t)
	return nil
}
