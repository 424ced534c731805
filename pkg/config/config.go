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

package config

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for policy file parsers
type Parser interface {
	// 📝 Parse parses the policy file from bytes
	Parse(ctx context.Context, data []byte) (*File, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📄 File is the on-disk form of a policy. Every field is optional;
// absent fields leave the corresponding policy value untouched.
type File struct {
	Destination      *string    `json:"destination,omitempty" yaml:"destination,omitempty" hcl:"destination,optional"`
	Template         *string    `json:"template,omitempty" yaml:"template,omitempty" hcl:"template,optional"`
	Operation        *string    `json:"operation,omitempty" yaml:"operation,omitempty" hcl:"operation,optional"`
	Conflict         *string    `json:"exists,omitempty" yaml:"exists,omitempty" hcl:"exists,optional"`
	Recursive        *bool      `json:"recursive,omitempty" yaml:"recursive,omitempty" hcl:"recursive,optional"`
	UseCaptureDate   *bool      `json:"use_capture_date,omitempty" yaml:"use_capture_date,omitempty" hcl:"use_capture_date,optional"`
	UseSuggestedDate *bool      `json:"use_suggested_date,omitempty" yaml:"use_suggested_date,omitempty" hcl:"use_suggested_date,optional"`
	UseCreatedDate   *bool      `json:"use_created_date,omitempty" yaml:"use_created_date,omitempty" hcl:"use_created_date,optional"`
	UseModifiedDate  *bool      `json:"use_modified_date,omitempty" yaml:"use_modified_date,omitempty" hcl:"use_modified_date,optional"`
	DeepCompare      *bool      `json:"binary,omitempty" yaml:"binary,omitempty" hcl:"binary,optional"`
	MediaOnly        *bool      `json:"media_only,omitempty" yaml:"media_only,omitempty" hcl:"media_only,optional"`
	IgnorePatterns   []string   `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" hcl:"ignore_patterns,optional"`
	Media            *MediaFile `json:"media,omitempty" yaml:"media,omitempty" hcl:"media,block"`
}

// 🖼️ MediaFile is the on-disk form of Media
type MediaFile struct {
	ImageExtensions []string `json:"image_extensions,omitempty" yaml:"image_extensions,omitempty" hcl:"image_extensions,optional"`
	VideoExtensions []string `json:"video_extensions,omitempty" yaml:"video_extensions,omitempty" hcl:"video_extensions,optional"`
}

// 🎯 Load reads and parses a policy file. The format is chosen by extension.
// A missing file yields an error matching os.ErrNotExist.
func Load(ctx context.Context, path string) (*File, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading policy file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading policy file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	f, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing policy file %s: %w", path, err)
	}

	return f, nil
}

// 🔄 Apply overlays the values present in f onto p
func (f *File) Apply(p *Policy) error {
	if f == nil {
		return nil
	}

	setString(&p.Destination, f.Destination)
	setString(&p.Template, f.Template)

	if f.Operation != nil {
		op, err := ParseOperation(*f.Operation)
		if err != nil {
			return errors.Errorf("operation: %w", err)
		}
		p.Operation = op
	}
	if f.Conflict != nil {
		c, err := ParseConflictPolicy(*f.Conflict)
		if err != nil {
			return errors.Errorf("exists: %w", err)
		}
		p.Conflict = c
	}

	setBool(&p.Recursive, f.Recursive)
	setBool(&p.UseCaptureDate, f.UseCaptureDate)
	setBool(&p.UseSuggestedDate, f.UseSuggestedDate)
	setBool(&p.UseCreatedDate, f.UseCreatedDate)
	setBool(&p.UseModifiedDate, f.UseModifiedDate)
	setBool(&p.DeepCompare, f.DeepCompare)
	setBool(&p.MediaOnly, f.MediaOnly)

	if f.IgnorePatterns != nil {
		p.IgnorePatterns = append([]string(nil), f.IgnorePatterns...)
	}
	if f.Media != nil {
		if f.Media.ImageExtensions != nil {
			p.Media.ImageExtensions = append([]string(nil), f.Media.ImageExtensions...)
		}
		if f.Media.VideoExtensions != nil {
			p.Media.VideoExtensions = append([]string(nil), f.Media.VideoExtensions...)
		}
	}

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
