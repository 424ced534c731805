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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNoSources is returned when a merge is requested without any source folder.
	ErrNoSources = errors.Base("no source folders supplied")
	// ErrInvalidPolicy wraps every policy validation failure.
	ErrInvalidPolicy = errors.Base("invalid merge policy")
)

// DefaultTemplate is the destination path template used when none is configured.
const DefaultTemplate = `{yyyy}\{yyyy}-{MM}-{MMMM}`

// 📚 Policy is the immutable set of rules for one merge run
type Policy struct {
	Destination      string         `json:"destination"`        // Root of the destination tree
	Template         string         `json:"template"`           // Destination sub-path template
	Operation        Operation      `json:"operation"`          // Copy, Move or DryRun
	Conflict         ConflictPolicy `json:"conflict"`           // What to do when the destination exists
	Recursive        bool           `json:"recursive"`          // Descend into subfolders
	UseCaptureDate   bool           `json:"use_capture_date"`   // Try metadata date tags
	UseSuggestedDate bool           `json:"use_suggested_date"` // Fall back to the folder's last capture date
	UseCreatedDate   bool           `json:"use_created_date"`   // Fall back to the creation timestamp
	UseModifiedDate  bool           `json:"use_modified_date"`  // Fall back to the last-modified timestamp
	DeepCompare      bool           `json:"deep_compare"`       // Hash contents when classifying duplicates
	MediaOnly        bool           `json:"media_only"`         // Only process files with a media extension
	IgnorePatterns   []string       `json:"ignore_patterns"`    // Doublestar globs relative to the source root
	Media            Media          `json:"media"`              // Known media extensions
}

// 🏭 DefaultPolicy returns a policy holding every documented default.
// Destination has no default and must be supplied.
func DefaultPolicy() Policy {
	return Policy{
		Template:         DefaultTemplate,
		Operation:        OperationCopy,
		Conflict:         ConflictSkip,
		Recursive:        false,
		UseCaptureDate:   true,
		UseSuggestedDate: false,
		UseCreatedDate:   true,
		UseModifiedDate:  false,
		DeepCompare:      false,
		Media:            DefaultMedia(),
	}
}

// 🔍 Validate checks that the policy can drive a merge run
func (p *Policy) Validate() error {
	if strings.TrimSpace(p.Destination) == "" {
		return errors.Errorf("%w: destination is required", ErrInvalidPolicy)
	}
	if p.Template == "" {
		return errors.Errorf("%w: path template is required", ErrInvalidPolicy)
	}
	if !p.Operation.Valid() {
		return errors.Errorf("%w: merge operation %d is not recognized", ErrInvalidPolicy, int(p.Operation))
	}
	if !p.Conflict.Valid() {
		return errors.Errorf("%w: conflict policy %d is not recognized", ErrInvalidPolicy, int(p.Conflict))
	}
	for i, pattern := range p.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("%w: ignore pattern %d %q is malformed", ErrInvalidPolicy, i, pattern)
		}
	}

	p.Destination = filepath.Clean(p.Destination)
	return nil
}

// 📝 String returns a one-line summary of the policy
func (p *Policy) String() string {
	return fmt.Sprintf("%s %s -> %s [exists=%s recursive=%t]",
		p.Operation, p.Template, p.Destination, p.Conflict, p.Recursive)
}

// 🖼️ Media lists the file extensions treated as photos or videos
type Media struct {
	ImageExtensions []string `json:"image_extensions"`
	VideoExtensions []string `json:"video_extensions"`
}

// DefaultMedia returns the built-in extension lists.
func DefaultMedia() Media {
	return Media{
		ImageExtensions: []string{"jpg", "jpeg", "png", "gif"},
		VideoExtensions: []string{"mp4", "mov", "avi", "3gp"},
	}
}

// IsMedia reports whether path has one of the configured extensions.
func (m Media) IsMedia(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	for _, list := range [][]string{m.ImageExtensions, m.VideoExtensions} {
		for _, e := range list {
			if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
				return true
			}
		}
	}
	return false
}
