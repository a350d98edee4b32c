// Copyright 2025 Halcyon Systems
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


// Package source provides adapters that fetch raw signals from upstream
// AI-ecosystem sources.
//
// Each adapter implements the Adapter interface, fetching records published
// after a given time and returning them as RawRecord values. Failures are
// reported through FetchResult.Err as a partial-failure marker: an adapter
// that loses one upstream still returns whatever it managed to fetch, and
// never aborts the surrounding ingestion cycle.
//
// Adapters register themselves by name in an init function:
//
//	ctor, err := source.Get("github")
//	adapter, err := ctor(source.Options{Repos: repos})
//
// Four adapters are provided:
//
//   - github: release announcements from configured repositories
//   - rss: vendor blog RSS/Atom feeds
//   - hackernews: keyword search over the Algolia HN API
//   - arxiv: paper feeds for the tracked arXiv categories
package source
