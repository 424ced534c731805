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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔀 Operation is the filesystem effect applied to a source file.
// The zero value is not a valid operation.
type Operation int

const (
	OperationCopy Operation = iota + 1
	OperationMove
	OperationDryRun
)

// Operations lists every valid operation in declaration order.
var Operations = []Operation{OperationCopy, OperationMove, OperationDryRun}

func (o Operation) String() string {
	switch o {
	case OperationCopy:
		return "Copy"
	case OperationMove:
		return "Move"
	case OperationDryRun:
		return "DryRun"
	default:
		return "Unknown"
	}
}

// Valid reports whether o is one of the declared operations.
func (o Operation) Valid() bool {
	return o >= OperationCopy && o <= OperationDryRun
}

// 🔍 ParseOperation parses an operation name, ignoring case, dashes and underscores.
func ParseOperation(s string) (Operation, error) {
	for _, o := range Operations {
		if normalizeName(s) == normalizeName(o.String()) {
			return o, nil
		}
	}
	return 0, errors.Errorf("%w: unknown merge operation %q", ErrInvalidPolicy, s)
}

// Set implements pflag.Value.
func (o *Operation) Set(s string) error {
	parsed, err := ParseOperation(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Type implements pflag.Value.
func (o *Operation) Type() string {
	return "operation"
}

func (o Operation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Operation) UnmarshalText(text []byte) error {
	return o.Set(string(text))
}

// ⚔️ ConflictPolicy is the rule applied when a file already exists at the destination path.
// The zero value is not a valid policy.
type ConflictPolicy int

const (
	ConflictSkip ConflictPolicy = iota + 1
	ConflictOverwriteIfIdentical
	ConflictOverwriteAlways
	ConflictDeleteSource
)

// ConflictPolicies lists every valid conflict policy in declaration order.
var ConflictPolicies = []ConflictPolicy{
	ConflictSkip,
	ConflictOverwriteIfIdentical,
	ConflictOverwriteAlways,
	ConflictDeleteSource,
}

// names accepted in addition to String()
var conflictAliases = map[string]ConflictPolicy{
	"overwritedestinationifidentical": ConflictOverwriteIfIdentical,
	"overwritedestinationalways":      ConflictOverwriteAlways,
}

func (c ConflictPolicy) String() string {
	switch c {
	case ConflictSkip:
		return "Skip"
	case ConflictOverwriteIfIdentical:
		return "OverwriteIfIdentical"
	case ConflictOverwriteAlways:
		return "OverwriteAlways"
	case ConflictDeleteSource:
		return "DeleteSource"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is one of the declared conflict policies.
func (c ConflictPolicy) Valid() bool {
	return c >= ConflictSkip && c <= ConflictDeleteSource
}

// 🔍 ParseConflictPolicy parses a conflict policy name, ignoring case, dashes and underscores.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	n := normalizeName(s)
	for _, c := range ConflictPolicies {
		if n == normalizeName(c.String()) {
			return c, nil
		}
	}
	if c, ok := conflictAliases[n]; ok {
		return c, nil
	}
	return 0, errors.Errorf("%w: unknown conflict policy %q", ErrInvalidPolicy, s)
}

// Set implements pflag.Value.
func (c *ConflictPolicy) Set(s string) error {
	parsed, err := ParseConflictPolicy(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Type implements pflag.Value.
func (c *ConflictPolicy) Type() string {
	return "policy"
}

func (c ConflictPolicy) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ConflictPolicy) UnmarshalText(text []byte) error {
	return c.Set(string(text))
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
