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

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/walteh/mediamerge/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🚦 Exit statuses
const (
	exitOK        = 0
	exitFailure   = 1
	exitNoSources = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd, ro := newRootCmd(stdout, stderr)
	if len(args) == 0 {
		rootCmd.SetOut(stderr)
		_ = rootCmd.Usage()
		return exitNoSources
	}

	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if ro.Console != nil {
			ro.Console.Errorf("%v", err)
		} else {
			fmt.Fprintf(stderr, "❌ %v\n", err)
		}
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrNoSources):
		return exitNoSources
	default:
		return exitFailure
	}
}
