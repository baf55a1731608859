// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tools

import "regexp"

// Captures errors happening before any analysis starts (program could not load)
var regexCouldNotLoad = regexp.MustCompile("could not load program")

// Captures the kind of error that happen when you put a flag at the end instead of go files
var namedFilesMustBeGoFiles = regexp.MustCompile("-: named files must be .go files: -(\\w)")

// Captures errors when no function to start the analysis from was found
var missingEntryPoints = regexp.MustCompile("no entry point")

// Captures errors of function bodies exceeding the iteration bound
var noConvergence = regexp.MustCompile("did not converge")

// Captures errors of unbounded recursions
var recursionLimit = regexp.MustCompile("recursion limit reached")

// HintForErrorMessage looks for specific error message and returns some other message that might help the user
// resolve the problem.
func HintForErrorMessage(errMsg string) string {
	if regexCouldNotLoad.MatchString(errMsg) {
		if namedFilesMustBeGoFiles.MatchString(errMsg) {
			return "all command line flags should be before the path to the Go files to analyze"
		}
		return "make sure you have provided the right arguments for an analyzer to load a Go program"
	}
	if missingEntryPoints.MatchString(errMsg) {
		return "the program should have a main function, or entry points should be given with -entry or in the config"
	}
	if noConvergence.MatchString(errMsg) {
		return "increase max-iterations in the config file"
	}
	if recursionLimit.MatchString(errMsg) {
		return "set a positive max-context-depth in the config file"
	}
	return ""
}
