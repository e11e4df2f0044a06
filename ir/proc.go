// Copyright 2020-2025 Buf Technologies, Inc.
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

package ir

// Proc is a specialized reference-counting procedure: a name, its formal
// parameters, and its body. The downstream consumer (spec.md §6) sees a set
// of these plus the rewritten caller IR.
type Proc struct {
	// Name is a stable identifier derived from (op, layout-id), per spec.md
	// §6: "Each procedure has a stable name derived from (op, layout-id)."
	Name string

	Params []Symbol
	Body   *Stmt
}
