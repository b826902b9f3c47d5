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

// Package plan implements the Planner (spec §4.2): diffing current
// against desired state into an ordered, validated, optimized list of
// actions, plus the human-readable and statistical renderings of that
// list.
package plan

import (
	"fmt"

	"github.com/somatczk/romulus/internal/state"
)

// ActionType is the tagged discriminant of an Action: what the
// executor should do with the resource.
type ActionType int

const (
	Create ActionType = iota
	Update
	Destroy
)

func (t ActionType) String() string {
	switch t {
	case Create:
		return "create"
	case Update:
		return "update"
	case Destroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// ResourceKind is the tagged discriminant of which of the four
// managed resource classes an Action targets.
type ResourceKind int

const (
	KindPool ResourceKind = iota
	KindNetwork
	KindVolume
	KindDomain
)

func (k ResourceKind) String() string {
	switch k {
	case KindPool:
		return "pool"
	case KindNetwork:
		return "network"
	case KindVolume:
		return "volume"
	case KindDomain:
		return "domain"
	default:
		return "unknown"
	}
}

// Action is a single (type, kind, resource, reason) tuple the
// executor consumes in order. Resource holds one of state.Pool,
// state.Network, state.Volume or state.Domain depending on Kind.
type Action struct {
	Type     ActionType
	Kind     ResourceKind
	Resource interface{}
	Reason   string
}

// Identity returns the resource's unique key within its kind, used by
// Validate and Optimize to track cross-action references without
// caring about the resource's other attributes.
func (a Action) Identity() string {
	switch r := a.Resource.(type) {
	case state.Pool:
		return r.Identity()
	case state.Network:
		return r.Identity()
	case state.Volume:
		return r.Identity()
	case state.Domain:
		return r.Identity()
	default:
		panic(fmt.Sprintf("plan: action has unrecognized resource type %T", a.Resource))
	}
}

// Plan is an ordered sequence of actions transforming current state
// into desired state.
type Plan []Action

// kindOrderCreate is the dependency order spec §4.2 names for
// creates: pools and networks have no dependencies on each other so
// either could go first; pools are listed first here and reversed for
// the destroy ordering below.
var kindOrderCreate = []ResourceKind{KindPool, KindNetwork, KindVolume, KindDomain}

// kindOrderDestroy is the reverse dependency order for destroys:
// domains first (nothing depends on a domain), then volumes, then
// networks and pools (§4.2 step 3).
var kindOrderDestroy = []ResourceKind{KindDomain, KindVolume, KindNetwork, KindPool}
