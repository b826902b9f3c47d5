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

// Package cmd assembles the Romulus CLI (spec §6): a thin collaborator
// that only ever invokes operations on the core packages (config,
// project, plan, executor, cloudinit); it holds no reconciliation
// logic of its own.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootLongDesc = `Romulus — a reconciliation engine for libvirt/KVM-backed
Kubernetes clusters.

Romulus reads a cluster configuration file, projects it into a desired
hypervisor state, diffs that against the hypervisor's current state,
and applies the resulting plan: storage pools, networks, base-image
and per-node volumes, and domains, in dependency order.`

// newRootCommand returns the root command and all its subordinates.
func newRootCommand() *cobra.Command {
	var configPath string
	var libvirtSocket string

	root := &cobra.Command{
		Use:          "romulus",
		Short:        "Reconcile a libvirt-backed Kubernetes cluster.",
		Long:         rootLongDesc,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "romulus.yaml", "path to the cluster configuration file")
	root.PersistentFlags().StringVar(&libvirtSocket, "libvirt-socket", "", "path to the libvirtd socket (empty uses the system default)")

	commands := []*cobra.Command{
		newVersionCommand(),
		newPlanCommand(&configPath, &libvirtSocket),
		newApplyCommand(&configPath, &libvirtSocket),
		newDestroyCommand(&configPath, &libvirtSocket),
		newRenderCloudinitCommand(&configPath),
		newBootstrapK8sCommand(&configPath),
	}

	root.AddCommand(commands...)

	return root
}

// Generate creates the full command hierarchy for the application.
func Generate() *cobra.Command {
	return newRootCommand()
}
