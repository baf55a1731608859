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

package config

const (
	// DefaultMaxContextDepth is the default maximum depth of calling contexts. A depth of 3 keeps the number of
	// contexts per function small on most programs.
	DefaultMaxContextDepth = 3
	// DefaultMaxIterations is the default maximum number of block visits when analyzing one function body
	DefaultMaxIterations = 1000
)
