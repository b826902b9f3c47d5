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

// Package cloudinit renders the (user-data, network-config) pair
// delivered to each VM at first boot (spec §4.4): literal ${name}
// substitution over role-specific templates, with a post-substitution
// YAML-validity check.
package cloudinit

import (
	"embed"
	"fmt"
	"regexp"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/somatczk/romulus/internal/state"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

var placeholderPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Vars is the variable set substituted into a template (spec §4.4):
// hostname, ssh_key, node_ip, ip_address. node_ip and ip_address carry
// the same value; the spec names both identifiers and templates are
// free to use either.
type Vars struct {
	Hostname  string
	SSHKey    string
	NodeIP    string
	IPAddress string
}

// recognizedVarNames are the only names whose absence renderOne treats
// as a fatal missing-required-variable error (spec §6): "Unknown
// placeholders are preserved but reported by validate_template" — they
// are never fatal.
var recognizedVarNames = map[string]bool{
	"hostname":   true,
	"ssh_key":    true,
	"node_ip":    true,
	"ip_address": true,
}

// asMap omits any field left at its zero value, so ValidateTemplate
// reports it as having "no value provided" rather than an empty one.
func (v Vars) asMap() map[string]string {
	m := make(map[string]string, 4)

	if v.Hostname != "" {
		m["hostname"] = v.Hostname
	}

	if v.SSHKey != "" {
		m["ssh_key"] = v.SSHKey
	}

	if v.NodeIP != "" {
		m["node_ip"] = v.NodeIP
	}

	if v.IPAddress != "" {
		m["ip_address"] = v.IPAddress
	}

	return m
}

// Substitute replaces every ${name} occurrence in template with the
// corresponding value from vars. Placeholders with no matching value
// are left untouched.
func Substitute(template string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if val, ok := vars[name]; ok {
			return val
		}

		return match
	})
}

// ValidateTemplate returns the placeholders present in template for
// which vars supplies no value.
func ValidateTemplate(template string, vars map[string]string) []string {
	var missing []string

	seen := make(map[string]bool)

	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		name := m[1]
		if seen[name] {
			continue
		}

		seen[name] = true

		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}

	return missing
}

// Renderer produces user-data and network-config documents for a
// domain, using either the embedded default templates or overrides
// supplied via WithTemplates.
type Renderer struct {
	masterUserData string
	workerUserData string
	networkConfig  string
}

// New returns a Renderer using the embedded default templates.
func New() (*Renderer, error) {
	master, err := defaultTemplates.ReadFile("templates/user-data-master.yaml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("cloudinit: read default master template: %w", err)
	}

	worker, err := defaultTemplates.ReadFile("templates/user-data-worker.yaml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("cloudinit: read default worker template: %w", err)
	}

	network, err := defaultTemplates.ReadFile("templates/network-config.yaml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("cloudinit: read default network-config template: %w", err)
	}

	return &Renderer{
		masterUserData: string(master),
		workerUserData: string(worker),
		networkConfig:  string(network),
	}, nil
}

// WithTemplates returns a copy of r with one or more templates
// overridden; an empty argument keeps r's template for that slot.
func (r *Renderer) WithTemplates(masterUserData, workerUserData, networkConfig string) *Renderer {
	out := *r

	if masterUserData != "" {
		out.masterUserData = masterUserData
	}

	if workerUserData != "" {
		out.workerUserData = workerUserData
	}

	if networkConfig != "" {
		out.networkConfig = networkConfig
	}

	return &out
}

// Rendered holds the two documents produced for a single domain.
type Rendered struct {
	UserData      string
	NetworkConfig string
}

// Render produces (user-data, network-config) for dom, choosing the
// user-data template by dom.Role. A missing hostname/ssh_key/node_ip/
// ip_address value or a resulting invalid YAML document is reported as
// *TemplateError; any other placeholder a template contains is left
// verbatim in the output (spec §6).
func (r *Renderer) Render(dom state.Domain, sshKey string) (Rendered, error) {
	vars := Vars{
		Hostname:  dom.Name,
		SSHKey:    sshKey,
		NodeIP:    dom.StaticIP,
		IPAddress: dom.StaticIP,
	}.asMap()

	userDataTemplate := r.workerUserData
	if dom.Role == state.RoleMaster {
		userDataTemplate = r.masterUserData
	}

	userData, err := renderOne(userDataTemplate, vars)
	if err != nil {
		return Rendered{}, fmt.Errorf("cloudinit: render user-data for %q: %w", dom.Name, err)
	}

	networkConfig, err := renderOne(r.networkConfig, vars)
	if err != nil {
		return Rendered{}, fmt.Errorf("cloudinit: render network-config for %q: %w", dom.Name, err)
	}

	return Rendered{UserData: userData, NetworkConfig: networkConfig}, nil
}

func renderOne(template string, vars map[string]string) (string, error) {
	var missingRequired []string

	for _, name := range ValidateTemplate(template, vars) {
		if recognizedVarNames[name] {
			missingRequired = append(missingRequired, name)
		}
	}

	if len(missingRequired) > 0 {
		return "", &TemplateError{Reason: fmt.Sprintf("missing required variables: %s", strings.Join(missingRequired, ", "))}
	}

	out := Substitute(template, vars)

	var probe map[string]interface{}
	if err := yaml.Unmarshal([]byte(out), &probe); err != nil {
		return "", &TemplateError{Reason: fmt.Sprintf("substituted output is not valid YAML: %v", err)}
	}

	return out, nil
}
