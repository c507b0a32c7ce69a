/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage owns the per-workspace embedded SQLite index: a derived,
// rebuildable database holding the compiled section/node rows, an FTS5
// full-text index over them, and the script snapshot history. The canonical
// artifact is always the script file itself; everything in .snil/ can be
// deleted and rebuilt.
package storage
