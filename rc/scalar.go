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

package rc

// Scalar layouts never own a heap allocation, so every refcount operation
// on one is a no-op (spec.md §4.1: "scalar | body = return unit"). Handled
// directly in dispatch.go's generate switch; this file exists only to give
// the archetype its own home, matching the teacher's one-file-per-
// archetype layout.
