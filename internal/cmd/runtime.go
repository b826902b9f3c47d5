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

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/somatczk/romulus/internal/config"
	"github.com/somatczk/romulus/internal/hypervisor"
	"github.com/somatczk/romulus/internal/hypervisor/libvirtadapter"
	"github.com/somatczk/romulus/internal/plan"
	"github.com/somatczk/romulus/internal/project"
	"github.com/somatczk/romulus/internal/state"
)

// loadPlan reads the configuration at configPath, connects to
// libvirtd, and returns the validated, optimized plan transforming
// current state into the config's desired state, plus the current
// state itself (needed by the executor to rewrite updates).
func loadPlan(ctx context.Context, configPath, libvirtSocket string) (plan.Plan, state.Snapshot, *config.Config, hypervisor.Adapter, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, state.Snapshot{}, nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	desired, err := project.Project(cfg)
	if err != nil {
		return nil, state.Snapshot{}, nil, nil, fmt.Errorf("projecting desired state: %w", err)
	}

	adapter, current, p, err := diffAgainstDesired(ctx, libvirtSocket, desired)
	if err != nil {
		return nil, state.Snapshot{}, nil, nil, err
	}

	return p, current, cfg, adapter, nil
}

// loadDestroyPlan connects to libvirtd and returns the plan tearing
// down everything currently managed, regardless of configPath's
// content.
func loadDestroyPlan(ctx context.Context, libvirtSocket string) (plan.Plan, state.Snapshot, hypervisor.Adapter, error) {
	adapter, current, p, err := diffAgainstDesired(ctx, libvirtSocket, state.Empty)
	if err != nil {
		return nil, state.Snapshot{}, nil, err
	}

	return p, current, adapter, nil
}

func diffAgainstDesired(ctx context.Context, libvirtSocket string, desired state.Snapshot) (hypervisor.Adapter, state.Snapshot, plan.Plan, error) {
	adapter, err := libvirtadapter.Dial(ctx, libvirtSocket)
	if err != nil {
		return nil, state.Snapshot{}, nil, fmt.Errorf("connecting to libvirt: %w", err)
	}

	current, err := hypervisor.ReadSnapshot(ctx, adapter)
	if err != nil {
		return nil, state.Snapshot{}, nil, fmt.Errorf("reading current state: %w", err)
	}

	p, err := plan.Diff(current, desired)
	if err != nil {
		return nil, state.Snapshot{}, nil, fmt.Errorf("computing plan: %w", err)
	}

	p, err = plan.Validate(p, current)
	if err != nil {
		return nil, state.Snapshot{}, nil, fmt.Errorf("validating plan: %w", err)
	}

	return adapter, current, plan.Optimize(p), nil
}

// closeAdapter releases the adapter's connection, if it holds one.
// hypervisor.Adapter intentionally has no Close method of its own
// (the fake adapter holds nothing to release); libvirtadapter.Adapter
// satisfies io.Closer, so it's detected here instead.
func closeAdapter(adapter hypervisor.Adapter) {
	if c, ok := adapter.(io.Closer); ok {
		_ = c.Close()
	}
}

// confirm prompts the operator for a literal "yes" on stdin, used by
// apply when --auto-approve is not set. destroy uses
// confirmClusterName instead.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stdout, "%s [type 'yes' to continue]: ", prompt)

	var response string
	fmt.Scanln(&response)

	return response == "yes"
}
