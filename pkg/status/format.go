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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	entryIndent  = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	outcomeWidth = 15 // Width for outcome text
)

// 🎨 Formatter renders an entry as one console line
type Formatter interface {
	FormatEntry(e Entry) string
}

// 📝 DefaultFormatter prints a colored symbol, the file name, the outcome and the target
type DefaultFormatter struct{}

// 🏭 NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatEntry implements Formatter.
func (f *DefaultFormatter) FormatEntry(e Entry) string {
	namePart := fmt.Sprintf("%-*s", nameWidth, filepath.Base(e.Source))
	outcomePart := fmt.Sprintf("%-*s", outcomeWidth, e.Outcome.String())

	detail := e.Destination
	switch e.Outcome {
	case OutcomeFailed:
		if e.Err != nil {
			detail = e.Err.Error()
		}
	case OutcomeUnresolved, OutcomeIgnored:
		detail = e.Reason
	}

	return strings.TrimRight(fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", entryIndent),
		symbol(e.Outcome),
		namePart,
		outcomePart,
		detail,
	), " ")
}

func symbol(o Outcome) string {
	switch o {
	case OutcomeCopied, OutcomeMoved:
		return color.GreenString("✓")
	case OutcomeDryRun:
		return color.CyanString("~")
	case OutcomeSkipped, OutcomeIgnored:
		return color.HiBlackString("-")
	case OutcomeSourceDeleted:
		return color.YellowString("⟳")
	case OutcomeUnresolved:
		return color.YellowString("?")
	case OutcomeFailed:
		return color.RedString("✗")
	default:
		return color.HiBlackString("·")
	}
}
