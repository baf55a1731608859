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

/*
Package config provides a simple way to manage configuration files.

Use [Load](filename) to load a configuration from a specific filename.

Use [SetGlobalConfig](filename) to set filename as the global config, and then [LoadGlobal]() to load the global config.

A config file should be in yaml format. The top-level fields can be any of the fields defined in the Config
struct type. For example, a valid config file is as follows:

	options:
	  log-level: 4
	  max-context-depth: 2
	  cache-policy: append
	  pkg-filter: github.com/example

	entry-points:
	  - package: github.com/example/cmd
	    method: Run

# Identifying code elements

The config uses [CodeIdentifier] to identify functions. An important feature of the code identifiers is that the
string specifications are seen as regexes if they can be compiled to regexes, otherwise they are strings.

# Soundness

The results are sound for any value of the options, except when a timeout interrupts the analysis. Lowering
max-context-depth trades precision for speed: calls beyond the depth evaluate to unknown values.
*/
package config
