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

// Package mac derives deterministic MAC addresses for projected
// domains, resolving spec Open Question 3: the source leaves MAC
// assignment undefined, so Romulus generates one from (role, index)
// rather than delegating to the hypervisor, keeping the projector
// pure and idempotent across repeated runs against unchanged config.
package mac

import (
	"fmt"
	"hash/fnv"

	"github.com/somatczk/romulus/internal/state"
)

// qemuOUI is the locally-administered organizationally unique
// identifier QEMU/KVM has traditionally used for generated NICs.
const qemuOUI = "52:54:00"

// Derive returns a stable, locally-administered unicast MAC address
// for a (role, index) pair. The same pair always yields the same
// address, which is required for diff(desired, desired) to remain
// empty across repeated projections of the same config.
func Derive(role state.Role, index int) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s-%d", role, index)
	sum := h.Sum32()

	return fmt.Sprintf("%s:%02x:%02x:%02x", qemuOUI, byte(sum>>16), byte(sum>>8), byte(sum))
}
