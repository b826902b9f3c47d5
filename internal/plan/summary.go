/*
Copyright 2026 The Romulus Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package plan

import "time"

// Statistics counts a plan's actions by type and by resource kind,
// plus a coarse estimated duration (spec §4.2). Estimates are only
// guaranteed to behave monotonically with plan size, not to predict
// real execution time.
type Statistics struct {
	ByType       map[ActionType]int
	ByKind       map[ResourceKind]int
	Total        int
	EstimatedFor time.Duration
}

// Summary computes Statistics for a plan.
func Summary(p Plan) Statistics {
	stats := Statistics{
		ByType: make(map[ActionType]int, 3),
		ByKind: make(map[ResourceKind]int, 4),
	}

	for _, a := range p {
		stats.ByType[a.Type]++
		stats.ByKind[a.Kind]++
		stats.Total++
		stats.EstimatedFor += cost(a)
	}

	return stats
}
