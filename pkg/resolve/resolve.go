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

// Package resolve picks the capture date that places a file in the destination tree.
//
// Strategies are attempted in a fixed order and the first one that yields a date wins:
//
//	capture (metadata tag) -> suggested (folder's last capture) -> created -> modified
//
// A file for which every enabled strategy fails is left unresolved.
package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/mediamerge/pkg/fsinfo"
	"github.com/walteh/mediamerge/pkg/metadata"
	"gitlab.com/tozd/go/errors"
)

// Metadata tag identifiers carrying a date/time value.
const (
	TagDateTime          uint16 = 0x0132
	TagDateTimeOriginal  uint16 = 0x9003
	TagDateTimeDigitized uint16 = 0x9004
)

// CaptureLayout is the accepted tag value format. The separator between the
// date and time is U+2000 EN QUAD, not an ordinary space.
const CaptureLayout = "2006:01:02\u200015:04:05"

// 🧭 Strategy names the rule that produced a date
type Strategy int

const (
	StrategyUnresolved Strategy = iota
	StrategyCapture
	StrategySuggested
	StrategyCreated
	StrategyModified
)

func (s Strategy) String() string {
	switch s {
	case StrategyCapture:
		return "capture"
	case StrategySuggested:
		return "suggested"
	case StrategyCreated:
		return "created"
	case StrategyModified:
		return "modified"
	default:
		return "unresolved"
	}
}

// 📅 Date is a resolved capture date
type Date struct {
	Time     time.Time
	Strategy Strategy
}

// Resolved reports whether a strategy produced the date.
func (d Date) Resolved() bool {
	return d.Strategy != StrategyUnresolved
}

// 🧳 Suggestion is the last capture date seen in the folder being processed.
// The zero value is empty. It is returned from every Resolve call and must be
// passed to the next call for the same folder only.
type Suggestion struct {
	time  time.Time
	valid bool
}

// Suggest returns a non-empty suggestion holding t.
func Suggest(t time.Time) Suggestion {
	return Suggestion{time: t, valid: true}
}

// Get returns the suggested time and whether one is present.
func (s Suggestion) Get() (time.Time, bool) {
	return s.time, s.valid
}

// 🔎 CaptureOutcome classifies a metadata lookup
type CaptureOutcome int

const (
	CaptureFound CaptureOutcome = iota
	CaptureReadFailed
	CaptureNoMatchingTag
	CaptureUnparseable
)

func (o CaptureOutcome) String() string {
	switch o {
	case CaptureFound:
		return "found"
	case CaptureReadFailed:
		return "read failed"
	case CaptureNoMatchingTag:
		return "no matching tag"
	case CaptureUnparseable:
		return "unparseable"
	default:
		return "unknown"
	}
}

// 📷 Capture is the result of looking for a capture date in file metadata
type Capture struct {
	Outcome CaptureOutcome
	Time    time.Time
	Tag     metadata.Tag // Selected tag, set for Found and Unparseable
	Err     error        // Reader or parse error, if any
}

// Strategies enables individual resolution strategies.
type Strategies struct {
	Capture   bool
	Suggested bool
	Created   bool
	Modified  bool
}

// 🔧 Options configures a Resolver
type Options struct {
	Reader     metadata.Reader
	Strategies Strategies
	Logger     *zerolog.Logger
	// Location interprets tag values, which carry no offset. Defaults to time.Local.
	Location *time.Location
}

// 🎯 Resolver resolves capture dates
type Resolver struct {
	reader     metadata.Reader
	strategies Strategies
	logger     *zerolog.Logger
	loc        *time.Location
}

// 🏭 New creates a new resolver
func New(opts Options) (*Resolver, error) {
	if opts.Strategies.Capture && opts.Reader == nil {
		return nil, errors.Errorf("metadata reader is required when the capture strategy is enabled")
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Resolver{
		reader:     opts.Reader,
		strategies: opts.Strategies,
		logger:     opts.Logger,
		loc:        opts.Location,
	}, nil
}

// 📅 Resolve picks the date for file and returns the suggestion to carry to the
// next file of the same folder. Only a capture-date hit replaces the suggestion.
func (r *Resolver) Resolve(ctx context.Context, file fsinfo.File, last Suggestion) (Date, Suggestion) {
	if r.strategies.Capture {
		c := r.ReadCapture(ctx, file.Path)
		if c.Outcome == CaptureFound {
			return Date{Time: c.Time, Strategy: StrategyCapture}, Suggest(c.Time)
		}
	}

	if r.strategies.Suggested {
		if t, ok := last.Get(); ok {
			r.logger.Info().Str("file", file.Name).Time("suggested", t).Msg("using suggested date")
			return Date{Time: t, Strategy: StrategySuggested}, last
		}
	}

	if r.strategies.Created {
		return Date{Time: file.Created, Strategy: StrategyCreated}, last
	}

	if r.strategies.Modified {
		return Date{Time: file.Modified, Strategy: StrategyModified}, last
	}

	r.logger.Info().Str("file", file.Path).Msg("unable to determine destination")
	return Date{}, last
}

// 🔎 ReadCapture looks up and parses the capture date tag of path.
// Failures are reported through the outcome, never as a panic or error return.
func (r *Resolver) ReadCapture(ctx context.Context, path string) Capture {
	tags, err := r.reader.Read(ctx, path)
	if err != nil {
		r.logger.Debug().Str("path", path).Err(err).Msg("unable to parse metadata")
		r.logger.Warn().Str("path", path).Msgf("an error occurred reading metadata: %v", err)
		return Capture{Outcome: CaptureReadFailed, Err: err}
	}

	tag, ok := selectDateTag(tags)
	if !ok {
		r.logger.Debug().Str("path", path).Msg("no date/time values were found in the metadata")
		return Capture{Outcome: CaptureNoMatchingTag}
	}
	r.logger.Debug().Str("path", path).Str("tag", tagHex(tag.ID)).Interface("value", tag.Value).Msg("found metadata tag")

	t, err := ParseCaptureDate(tag.Value, r.loc)
	if err != nil {
		r.logger.Warn().Str("path", path).Str("tag", tagHex(tag.ID)).Interface("value", tag.Value).Msg("unable to parse metadata date tag")
		return Capture{Outcome: CaptureUnparseable, Tag: tag, Err: err}
	}

	r.logger.Debug().Interface("value", tag.Value).Time("parsed", t).Msg("parsed capture date")
	return Capture{Outcome: CaptureFound, Time: t, Tag: tag}
}

// ParseCaptureDate parses a tag value in CaptureLayout. Non-string values fail.
func ParseCaptureDate(value any, loc *time.Location) (time.Time, error) {
	s, ok := value.(string)
	if !ok {
		return time.Time{}, errors.Errorf("tag value of type %T is not a string", value)
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(CaptureLayout, s, loc)
	if err != nil {
		return time.Time{}, errors.Errorf("parsing capture date %q: %w", s, err)
	}
	return t, nil
}

// selectDateTag returns the date tag with the smallest identifier.
func selectDateTag(tags []metadata.Tag) (metadata.Tag, bool) {
	var best metadata.Tag
	found := false
	for _, t := range tags {
		switch t.ID {
		case TagDateTime, TagDateTimeOriginal, TagDateTimeDigitized:
		default:
			continue
		}
		if !found || t.ID < best.ID {
			best = t
			found = true
		}
	}
	return best, found
}

func tagHex(id uint16) string {
	return fmt.Sprintf("%04x", id)
}
