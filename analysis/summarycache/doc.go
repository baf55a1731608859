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
Package summarycache implements the context-sensitive inter-procedural summary cache used by the abstract interpreter.

When the analysis reaches a call site, it builds a precondition summary for the callee with the [Factory] of a
[Manager]. If the [Cache] already holds a complete summary whose precondition is at least as general (the cached
summary subsumes the new one), the postcondition of the cached summary is applied at the call site and the callee is
not analyzed again:

	pre := manager.CreateSummary(site, callerState, args)
	if manager.ContainsSummary(callee, pre) {
		result, err = manager.GetSummary(callee, pre).Apply(site, node, callerState)
	} else {
		post := analyzeBody(callee, pre.PreCondition())
		pre.Finalize(post)
		manager.PutSummary(callee, pre)
		result, err = pre.Apply(site, node, callerState)
	}

Independently of the hit or miss decision, the [Repository] keeps one [MethodSummary] per method, which records the
summary of every calling context ([ContextKey]) and the join of all the postconditions of the method.

None of the types in this package are safe for concurrent use. Drivers that analyze methods in parallel must
serialize accesses to a cache and a repository.
*/
package summarycache
