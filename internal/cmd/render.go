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
	"github.com/somatczk/romulus/internal/config"
	"github.com/somatczk/romulus/internal/project"
)

// newRenderCloudinitCommand returns a command that renders the
// user-data and network-config documents for a single named node
// from the configuration, without touching the hypervisor. Useful for
// inspecting what apply would hand to a domain before creating it.
func newRenderCloudinitCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "render-cloudinit <node-name>",
		Short: "Print the cloud-init documents that would be attached to a node.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			desired, err := project.Project(cfg)
			if err != nil {
				return fmt.Errorf("projecting desired state: %w", err)
			}

			var found bool
			var target = args[0]

			renderer, err := cloudinit.New()
			if err != nil {
				return fmt.Errorf("loading cloud-init templates: %w", err)
			}

			sshKey, err := os.ReadFile(cfg.SSH.PublicKeyPath)
			if err != nil {
				return fmt.Errorf("reading ssh public key: %w", err)
			}

			for _, dom := range desired.Domains {
				if dom.Name != target {
					continue
				}

				found = true

				rendered, err := renderer.Render(dom, strings.TrimSpace(string(sshKey)))
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), "--- user-data ---")
				fmt.Fprintln(cmd.OutOrStdout(), rendered.UserData)
				fmt.Fprintln(cmd.OutOrStdout(), "--- network-config ---")
				fmt.Fprintln(cmd.OutOrStdout(), rendered.NetworkConfig)
			}

			if !found {
				return fmt.Errorf("no node named %q in the projected cluster", target)
			}

			return nil
		},
	}
}
