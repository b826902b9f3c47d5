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

	"github.com/spf13/cobra"

	"github.com/somatczk/romulus/internal/bootstrap"
	"github.com/somatczk/romulus/internal/config"
	"github.com/somatczk/romulus/internal/project"
)

// newBootstrapK8sCommand returns a command that would install
// Kubernetes onto a provisioned cluster's domains. No bootstrapper
// ships with this repository; the command exists so the interface it
// drives (bootstrap.Kubernetes) has a caller, and so operators get a
// clear error rather than a missing subcommand.
func newBootstrapK8sCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap-k8s",
		Short: "Install Kubernetes onto a provisioned cluster (not implemented).",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			desired, err := project.Project(cfg)
			if err != nil {
				return fmt.Errorf("projecting desired state: %w", err)
			}

			var runner bootstrap.Kubernetes = bootstrap.Unimplemented{}

			return runner.Bootstrap(cmd.Context(), desired)
		},
	}
}
