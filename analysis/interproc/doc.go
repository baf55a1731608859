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

// Package interproc implements an interprocedural zero-ness analysis of SSA programs that reuses function summaries
// across calling contexts.
//
// Each function body is analyzed by a worklist fixpoint over its basic blocks, where every SSA value is mapped to a
// lattice.Kind. When the analysis of a body reaches a call to a function with a body, the precondition of the call,
// i.e. the tuple of argument kinds, is looked up in a summarycache.Cache:
//   - if a cached summary subsumes the precondition, its postcondition is applied at the call site and the callee is
//     not analyzed again;
//   - otherwise, the callee is analyzed in a new calling context, and the resulting summary is cached.
//
// Calling contexts are identified by k-limited call strings. Contexts deeper than the maximum context depth of the
// configuration are not analyzed and their results are unknown (top), which guarantees termination on recursive
// programs.
//
// The analysis is not safe for concurrent use.
package interproc
