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

package status

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// 📊 Outcome is what happened to one source file
type Outcome int

const (
	OutcomeUnknown       Outcome = iota
	OutcomeCopied                // Bytes written to the destination, source kept
	OutcomeMoved                 // Bytes written to the destination, source removed
	OutcomeDryRun                // Operation logged only
	OutcomeSkipped               // Destination exists and the conflict policy kept it
	OutcomeSourceDeleted         // Destination exists and the source was deleted
	OutcomeUnresolved            // No capture date could be determined
	OutcomeIgnored               // Filtered out by pattern or media type
	OutcomeFailed                // An error left the file unmigrated
)

// Outcomes lists all known outcomes in display order.
var Outcomes = []Outcome{
	OutcomeCopied,
	OutcomeMoved,
	OutcomeDryRun,
	OutcomeSkipped,
	OutcomeSourceDeleted,
	OutcomeUnresolved,
	OutcomeIgnored,
	OutcomeFailed,
}

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeCopied:
		return "copied"
	case OutcomeMoved:
		return "moved"
	case OutcomeDryRun:
		return "dry-run"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeSourceDeleted:
		return "source deleted"
	case OutcomeUnresolved:
		return "unresolved"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Entry describes the decision taken for one file
type Entry struct {
	Source      string  // Source file path
	Destination string  // Computed destination path, empty when unresolved
	Outcome     Outcome // What happened
	Reason      string  // Short human explanation
	Err         error   // Failure cause for OutcomeFailed
}

// 📈 Summary counts entries per outcome
type Summary map[Outcome]int

// Total returns the number of files reported.
func (s Summary) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// String renders the non-zero counts in display order.
func (s Summary) String() string {
	var parts []string
	for _, o := range Outcomes {
		if s[o] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", s[o], o))
		}
	}
	if len(parts) == 0 {
		return "no files processed"
	}
	return strings.Join(parts, ", ")
}

// 🗂️ Tracker records entries and prints a line per entry
type Tracker struct {
	console   io.Writer
	logger    *zerolog.Logger
	formatter Formatter

	mu      sync.Mutex
	entries []Entry
	summary Summary
}

// 🏭 NewTracker creates a tracker. A nil console disables console lines.
func NewTracker(console io.Writer, logger *zerolog.Logger) *Tracker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Tracker{
		console:   console,
		logger:    logger,
		formatter: NewDefaultFormatter(),
		summary:   Summary{},
	}
}

// Report records e.
func (t *Tracker) Report(ctx context.Context, e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, e)
	t.summary[e.Outcome]++

	ev := t.logger.Debug()
	if e.Outcome == OutcomeFailed {
		ev = t.logger.Warn().Err(e.Err)
	}
	ev.Str("source", e.Source).
		Str("destination", e.Destination).
		Str("outcome", e.Outcome.String()).
		Str("reason", e.Reason).
		Msg("file processed")

	if t.console != nil {
		fmt.Fprintln(t.console, t.formatter.FormatEntry(e))
	}
}

// Entries returns a copy of the recorded entries in report order.
func (t *Tracker) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

// Summary returns a copy of the per-outcome counts.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(Summary, len(t.summary))
	for k, v := range t.summary {
		out[k] = v
	}
	return out
}
