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

// costTable gives a coarse per-(type, kind) duration estimate for
// Summary's estimated-duration figure. Spec §4.2 only requires these
// be internally consistent enough for monotonic-behavior assertions,
// not accurate wall-clock predictions, so the constants are rough
// averages observed provisioning small libvirt clusters: pool/network
// operations are metadata-only, volume creates dominate on
// base-image download or copy-on-write overlay allocation, and domain
// creates are cheap once their disks exist.
var costTable = map[ActionType]map[ResourceKind]time.Duration{
	Create: {
		KindPool:    2 * time.Second,
		KindNetwork: 2 * time.Second,
		KindVolume:  20 * time.Second,
		KindDomain:  5 * time.Second,
	},
	Update: {
		KindPool:    1 * time.Second,
		KindNetwork: 1 * time.Second,
		KindVolume:  5 * time.Second,
		KindDomain:  2 * time.Second,
	},
	Destroy: {
		KindPool:    1 * time.Second,
		KindNetwork: 1 * time.Second,
		KindVolume:  3 * time.Second,
		KindDomain:  2 * time.Second,
	},
}

func cost(a Action) time.Duration {
	return costTable[a.Type][a.Kind]
}

// SetVolumeCreateCost overrides the estimated duration of a volume
// create, the dominant term in most clusters' total. Operators on
// slower or faster storage than the defaults assume can call this
// before Summary to keep the estimate meaningful.
func SetVolumeCreateCost(d time.Duration) {
	costTable[Create][KindVolume] = d
}
