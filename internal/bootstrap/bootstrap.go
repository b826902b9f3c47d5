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

// Package bootstrap defines the boundary between a provisioned
// cluster's domains and whatever installs Kubernetes onto them.
// Running kubeadm, distributing join tokens and fetching a kubeconfig
// are explicitly out of scope: this package only names the interface
// a future implementation would satisfy, the way pkg/provisioners
// names RemoteCluster ahead of any one concrete remote.
package bootstrap

import (
	"context"
	"errors"

	"github.com/somatczk/romulus/internal/state"
)

// ErrNotImplemented is returned by Unimplemented, the only
// Kubernetes bootstrapper this repository ships.
var ErrNotImplemented = errors.New("bootstrap: kubernetes bootstrapping is not implemented")

// Kubernetes bootstraps a Kubernetes control plane and joins workers
// to it, given the domains a successful apply brought up. Concrete
// implementations (kubeadm over SSH, a cloud-init-driven join, or a
// cluster-api-style remote) live outside this repository.
type Kubernetes interface {
	// Bootstrap brings up Kubernetes across desired.Domains: the
	// first master by role initializes the control plane, remaining
	// masters and workers join it. desired is the Snapshot the apply
	// that preceded this call reconciled the hypervisor to.
	Bootstrap(ctx context.Context, desired state.Snapshot) error
}

// Unimplemented always fails with ErrNotImplemented. It exists so the
// CLI's bootstrap-k8s command has a concrete Kubernetes to invoke
// until a real implementation is wired in.
type Unimplemented struct{}

// Bootstrap implements Kubernetes.
func (Unimplemented) Bootstrap(ctx context.Context, desired state.Snapshot) error {
	return ErrNotImplemented
}
