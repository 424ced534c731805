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

// Package pathtmpl expands destination path templates against a capture date.
//
// A template is literal text with brace-wrapped date patterns:
//
//	{yyyy}/{yyyy}-{MM}-{MMMM}  ->  2022/2022-03-March
//
// Text outside braces, including separators, is copied unchanged.
package pathtmpl

import (
	"strings"
	"time"
)

type segment struct {
	text    string
	pattern bool
}

// 🗺️ Template is a parsed path template
type Template struct {
	raw      string
	segments []segment
}

// 🔍 Parse splits raw into literal text and brace-delimited date patterns.
// A brace without a closing partner is literal text.
func Parse(raw string) *Template {
	t := &Template{raw: raw}
	rest := raw
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			t.add(rest, false)
			break
		}
		closing := strings.IndexByte(rest[open+1:], '}')
		if closing < 0 {
			t.add(rest, false)
			break
		}
		closing += open + 1

		t.add(rest[:open], false)
		t.add(rest[open+1:closing], true)
		rest = rest[closing+1:]
	}
	return t
}

func (t *Template) add(text string, pattern bool) {
	if text == "" && !pattern {
		return
	}
	t.segments = append(t.segments, segment{text: text, pattern: pattern})
}

// String returns the template source.
func (t *Template) String() string {
	return t.raw
}

// 📅 Expand formats every pattern with date and concatenates the segments in order.
func (t *Template) Expand(date time.Time) string {
	var b strings.Builder
	for _, s := range t.segments {
		if s.pattern {
			b.WriteString(FormatDate(date, s.text))
		} else {
			b.WriteString(s.text)
		}
	}
	return b.String()
}
