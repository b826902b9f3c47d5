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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/somatczk/romulus/internal/cloudinit"
	"github.com/somatczk/romulus/internal/config"
	"github.com/somatczk/romulus/internal/executor"
	"github.com/somatczk/romulus/internal/plan"
)

// newDestroyCommand returns a command that tears down every resource
// the cluster's configuration manages, regardless of its current
// contents. Unlike apply, destroy diffs against state.Empty rather
// than the projected desired state, so a domain count in the config
// that no longer matches what's deployed doesn't leave stragglers.
func newDestroyCommand(configPath, libvirtSocket *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down every hypervisor resource the configuration manages.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			p, current, adapter, err := loadDestroyPlan(ctx, *libvirtSocket)
			if err != nil {
				return err
			}
			defer closeAdapter(adapter)

			if len(p) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to destroy")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), plan.Format(p))

			if !force && !confirmClusterName(cfg.Cluster.Name) {
				fmt.Fprintln(cmd.OutOrStdout(), "destroy cancelled")
				return nil
			}

			renderer, err := cloudinit.New()
			if err != nil {
				return fmt.Errorf("loading cloud-init templates: %w", err)
			}

			exec := executor.New(adapter, renderer, "")

			result, err := exec.Apply(ctx, p, current)

			fmt.Fprintf(cmd.OutOrStdout(), "destroy complete: %d destroyed\n", result.Destroyed)

			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "destroy without retyping the cluster name to confirm")

	return cmd
}

// confirmClusterName requires the operator retype the cluster's name
// exactly, a stiffer confirmation than apply's yes/no since destroy
// is irreversible.
func confirmClusterName(name string) bool {
	fmt.Fprintf(os.Stdout, "This will destroy cluster %q. Type its name to confirm: ", name)

	var response string
	fmt.Scanln(&response)

	return response == name
}
