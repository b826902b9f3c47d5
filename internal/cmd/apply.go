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
	"strings"

	"github.com/spf13/cobra"

	"github.com/somatczk/romulus/internal/cloudinit"
	"github.com/somatczk/romulus/internal/executor"
	"github.com/somatczk/romulus/internal/plan"
)

// newApplyCommand returns a command that computes the plan and, once
// confirmed, executes it against the hypervisor.
func newApplyCommand(configPath, libvirtSocket *string) *cobra.Command {
	var autoApprove bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the hypervisor's state to match the configuration file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, current, cfg, adapter, err := loadPlan(ctx, *configPath, *libvirtSocket)
			if err != nil {
				return err
			}
			defer closeAdapter(adapter)

			if len(p) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to do: current state already matches the configuration")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), plan.Format(p))

			if !autoApprove && !confirm("Apply the above plan?") {
				fmt.Fprintln(cmd.OutOrStdout(), "apply cancelled")
				return nil
			}

			sshKey, err := os.ReadFile(cfg.SSH.PublicKeyPath)
			if err != nil {
				return fmt.Errorf("reading ssh public key: %w", err)
			}

			renderer, err := cloudinit.New()
			if err != nil {
				return fmt.Errorf("loading cloud-init templates: %w", err)
			}

			exec := executor.New(adapter, renderer, strings.TrimSpace(string(sshKey)))

			result, err := exec.Apply(ctx, p, current)

			fmt.Fprintf(cmd.OutOrStdout(), "apply complete: %d created, %d updated, %d destroyed\n",
				result.Created, result.Updated, result.Destroyed)

			return err
		},
	}

	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "apply the plan without an interactive confirmation")

	return cmd
}
