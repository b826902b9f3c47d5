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
	"time"

	"github.com/spf13/cobra"

	"github.com/somatczk/romulus/internal/plan"
)

// newPlanCommand returns a command that computes and prints the plan
// transforming the hypervisor's current state into the configuration
// file's desired state, without applying it.
func newPlanCommand(configPath, libvirtSocket *string) *cobra.Command {
	var volumeCreateEstimate time.Duration

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the actions reconciliation would take, without applying them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if volumeCreateEstimate > 0 {
				plan.SetVolumeCreateCost(volumeCreateEstimate)
			}

			p, _, _, adapter, err := loadPlan(ctx, *configPath, *libvirtSocket)
			if err != nil {
				return err
			}
			defer closeAdapter(adapter)

			fmt.Fprintln(cmd.OutOrStdout(), plan.Format(p))

			stats := plan.Summary(p)
			fmt.Fprintf(cmd.OutOrStdout(), "%d to create, %d to update, %d to destroy (estimated %s)\n",
				stats.ByType[plan.Create], stats.ByType[plan.Update], stats.ByType[plan.Destroy], stats.EstimatedFor)

			return nil
		},
	}

	cmd.Flags().DurationVar(&volumeCreateEstimate, "volume-create-estimate", 0,
		"override the estimated duration of a single volume create, for slower or faster storage than the default assumes")

	return cmd
}
