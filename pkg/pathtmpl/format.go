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

package pathtmpl

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// culture-neutral expansions of single-letter standard patterns
var standardPatterns = map[string]string{
	"d": "MM/dd/yyyy",
	"D": "dddd, dd MMMM yyyy",
	"m": "MMMM dd",
	"M": "MMMM dd",
	"y": "yyyy MMMM",
	"Y": "yyyy MMMM",
	"t": "HH:mm",
	"T": "HH:mm:ss",
	"s": "yyyy'-'MM'-'dd'T'HH':'mm':'ss",
}

// ✍️ FormatDate renders t with a custom date pattern such as "yyyy-MM-dd".
//
// Supported tokens: y..yyyyy, M..MMMM, d..dddd, H/HH, h/hh, m/mm, s/ss,
// f..fffffff, F..FFFFFFF, t/tt, z/zz/zzz and K. Quoted text ('..' or ".."),
// backslash escapes and any other character are copied literally. A pattern
// of a single letter is treated as a standard pattern; prefix it with % to
// use the custom token instead.
func FormatDate(t time.Time, pattern string) string {
	if std, ok := standardPatterns[pattern]; ok {
		pattern = std
	}

	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch c {
		case '\'', '"':
			end := strings.IndexByte(pattern[i+1:], c)
			if end < 0 {
				b.WriteString(pattern[i+1:])
				return b.String()
			}
			b.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		case '\\':
			if i+1 < len(pattern) {
				b.WriteByte(pattern[i+1])
			}
			i += 2
			continue
		case '%':
			i++
			continue
		}

		n := repeat(pattern, i)
		if tok, ok := formatToken(t, c, n); ok {
			b.WriteString(tok)
			i += n
			continue
		}

		b.WriteByte(c)
		i++
	}
	return b.String()
}

func repeat(s string, i int) int {
	n := 1
	for i+n < len(s) && s[i+n] == s[i] {
		n++
	}
	return n
}

func formatToken(t time.Time, c byte, n int) (string, bool) {
	switch c {
	case 'y':
		year := t.Year()
		if n <= 2 {
			year %= 100
			if n == 1 {
				return strconv.Itoa(year), true
			}
		}
		return pad(year, n), true
	case 'M':
		switch n {
		case 1:
			return strconv.Itoa(int(t.Month())), true
		case 2:
			return pad(int(t.Month()), 2), true
		case 3:
			return t.Month().String()[:3], true
		default:
			return t.Month().String(), true
		}
	case 'd':
		switch n {
		case 1:
			return strconv.Itoa(t.Day()), true
		case 2:
			return pad(t.Day(), 2), true
		case 3:
			return t.Weekday().String()[:3], true
		default:
			return t.Weekday().String(), true
		}
	case 'H':
		return padUpTo(t.Hour(), n), true
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return padUpTo(h, n), true
	case 'm':
		return padUpTo(t.Minute(), n), true
	case 's':
		return padUpTo(t.Second(), n), true
	case 'f', 'F':
		if n > 7 {
			n = 7
		}
		digits := fmt.Sprintf("%09d", t.Nanosecond())[:n]
		if c == 'F' {
			digits = strings.TrimRight(digits, "0")
		}
		return digits, true
	case 't':
		ampm := "AM"
		if t.Hour() >= 12 {
			ampm = "PM"
		}
		if n == 1 {
			return ampm[:1], true
		}
		return ampm, true
	case 'z':
		return offset(t, n), true
	case 'K':
		return offset(t, 3), true
	}
	return "", false
}

func offset(t time.Time, n int) string {
	_, secs := t.Zone()
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	hours, minutes := secs/3600, secs%3600/60
	switch n {
	case 1:
		return fmt.Sprintf("%c%d", sign, hours)
	case 2:
		return fmt.Sprintf("%c%02d", sign, hours)
	default:
		return fmt.Sprintf("%c%02d:%02d", sign, hours, minutes)
	}
}

func pad(v, width int) string {
	return fmt.Sprintf("%0*d", width, v)
}

// padUpTo pads to two digits for doubled tokens; longer runs behave like two.
func padUpTo(v, n int) string {
	if n == 1 {
		return strconv.Itoa(v)
	}
	return pad(v, 2)
}
