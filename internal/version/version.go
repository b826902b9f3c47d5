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

// Package version holds build-time identifying information, set via
// linker flags (-ldflags -X) at build time.
package version

import "fmt"

var (
	// Application is the binary's name.
	Application = "romulus"

	// Version is the application version, set via -ldflags at build time.
	Version = "dev"

	// Revision is the git revision, set via -ldflags at build time.
	Revision = "unknown"
)

// String returns a canonical version string.
func String() string {
	return fmt.Sprintf("%s/%s (revision/%s)", Application, Version, Revision)
}
