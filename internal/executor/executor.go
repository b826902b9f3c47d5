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

// Package executor applies a validated plan against a
// hypervisor.Adapter (spec §4.3): single-threaded, in order, stopping
// on the first adapter or rendering error.
package executor

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/somatczk/romulus/internal/cloudinit"
	"github.com/somatczk/romulus/internal/hypervisor"
	"github.com/somatczk/romulus/internal/metrics"
	"github.com/somatczk/romulus/internal/plan"
	"github.com/somatczk/romulus/internal/state"
)

// defaultActionTimeout bounds any single adapter call; the executor
// never retries, it only times out (spec §4.3 is explicit that this
// is not a retry loop).
const defaultActionTimeout = 5 * time.Minute

// idempotentCheckCacheSize bounds the executor's memoization of
// "does this pool exist" adapter round-trips within a single Apply
// call.
const idempotentCheckCacheSize = 256

// Result summarizes a completed (or partially completed) Apply call.
type Result struct {
	Created   int
	Updated   int
	Destroyed int
	Failed    int
}

// Renderer is the subset of *cloudinit.Renderer the executor depends
// on, so tests can substitute a double.
type Renderer interface {
	Render(dom state.Domain, sshKey string) (cloudinit.Rendered, error)
}

// Executor applies plans against a hypervisor.Adapter.
type Executor struct {
	adapter  hypervisor.Adapter
	renderer Renderer
	sshKey   string
	timeout  time.Duration
	metrics  *metrics.Recorder

	// existsCache memoizes pool-existence checks within one Apply
	// call, avoiding repeat adapter round-trips for volume creates
	// (spec §7).
	existsCache *lru.Cache[string, bool]
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout overrides the per-action adapter-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.timeout = d }
}

// WithMetrics attaches a metrics recorder; if not supplied the
// Executor uses its own metrics.NewRecorder().
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Executor) { e.metrics = m }
}

// New builds an Executor targeting adapter, rendering cloud-init
// documents via renderer and signing them with sshKey.
func New(adapter hypervisor.Adapter, renderer Renderer, sshKey string, opts ...Option) *Executor {
	cache, _ := lru.New[string, bool](idempotentCheckCacheSize)

	e := &Executor{
		adapter:     adapter,
		renderer:    renderer,
		sshKey:      sshKey,
		timeout:     defaultActionTimeout,
		metrics:     metrics.NewRecorder(),
		existsCache: cache,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// rewrittenUpdateReason marks the Create half of a destroy+create pair
// RewriteUpdates produced, so Apply can attribute it to Result.Updated
// instead of Result.Created.
const rewrittenUpdateReason = "rewritten from update: recreate with desired attributes"

// rewrittenUpdateDestroyReason marks the Destroy half of that same
// pair, so Apply's result accounting can skip double-counting it.
const rewrittenUpdateDestroyReason = "rewritten from update: destroy stale attributes"

// Apply executes p in order against the adapter, stopping at the
// first failure. current is used to rewrite any Update action into a
// destroy-then-create pair before execution begins (spec §4.3).
func (e *Executor) Apply(ctx context.Context, p plan.Plan, current state.Snapshot) (Result, error) {
	logger := log.FromContext(ctx)

	e.existsCache.Purge()

	execPlan, err := RewriteUpdates(p, current)
	if err != nil {
		return Result{}, err
	}

	var result Result

	for i, a := range execPlan {
		if err := ctx.Err(); err != nil {
			return result, &Cancelled{Completed: i, Cause: err}
		}

		actionCtx, cancel := context.WithTimeout(ctx, e.timeout)
		start := time.Now()
		err := e.apply(actionCtx, a)
		elapsed := time.Since(start)
		cancel()

		e.metrics.ObserveActionDuration(a.Type.String(), a.Kind.String(), elapsed.Seconds())

		if err != nil {
			result.Failed++

			e.metrics.RecordActionFailure(a.Type.String(), a.Kind.String())

			logger.Error(err, "action failed", "type", a.Type.String(), "kind", a.Kind.String(), "identity", a.Identity())

			return result, &ExecutionError{Action: a, Completed: i, Cause: err}
		}

		switch {
		case a.Type == plan.Create && a.Reason == rewrittenUpdateReason:
			result.Updated++
		case a.Type == plan.Create:
			result.Created++
		case a.Type == plan.Destroy && a.Reason == rewrittenUpdateDestroyReason:
			// Counted once, on the paired create above.
		case a.Type == plan.Destroy:
			result.Destroyed++
		}

		e.metrics.RecordActionSuccess(a.Type.String(), a.Kind.String())

		logger.V(1).Info("action applied", "type", a.Type.String(), "kind", a.Kind.String(), "identity", a.Identity())
	}

	return result, nil
}

// apply dispatches a single action. By the time Apply calls this,
// RewriteUpdates has already eliminated every plan.Update action, so
// only Create and Destroy ever reach here.
func (e *Executor) apply(ctx context.Context, a plan.Action) error {
	switch a.Type {
	case plan.Create:
		return e.applyCreate(ctx, a)
	case plan.Destroy:
		return e.applyDestroy(ctx, a)
	default:
		return nil
	}
}

func (e *Executor) applyCreate(ctx context.Context, a plan.Action) error {
	switch r := a.Resource.(type) {
	case state.Pool:
		return e.adapter.CreatePool(ctx, r)
	case state.Network:
		return e.adapter.CreateNetwork(ctx, r)
	case state.Volume:
		if err := e.ensurePoolExists(ctx, r.Pool); err != nil {
			return err
		}

		// A cloud-init ISO is written by its domain's create, through
		// CreateCloudInitISO; creating it here as well would make that
		// call see a conflicting volume.
		if r.Format == state.VolumeFormatISO {
			return nil
		}

		return e.adapter.CreateVolume(ctx, r)
	case state.Domain:
		return e.applyCreateDomain(ctx, r)
	default:
		return nil
	}
}

// ensurePoolExists performs the idempotent-create pre-check for a
// volume's containing pool, memoizing confirmed pools for
// the remainder of this Apply call so a cluster with many VMs in the
// same pool does not re-query the adapter for every one of them.
func (e *Executor) ensurePoolExists(ctx context.Context, name string) error {
	if confirmed, ok := e.existsCache.Get(name); ok && confirmed {
		return nil
	}

	_, ok, err := e.adapter.GetPool(ctx, name)
	if err != nil {
		return err
	}

	e.existsCache.Add(name, ok)

	if !ok {
		return &hypervisor.AdapterError{Op: "create_volume", Identity: name, Cause: hypervisor.ErrNotFound}
	}

	return nil
}

func (e *Executor) applyCreateDomain(ctx context.Context, dom state.Domain) error {
	rendered, err := e.renderer.Render(dom, e.sshKey)
	if err != nil {
		return err
	}

	if err := e.adapter.CreateCloudInitISO(ctx, dom.CloudInitVolume, rendered.UserData, rendered.NetworkConfig); err != nil {
		return err
	}

	return e.adapter.CreateDomain(ctx, dom)
}

func (e *Executor) applyDestroy(ctx context.Context, a plan.Action) error {
	switch r := a.Resource.(type) {
	case state.Pool:
		return e.adapter.DestroyPool(ctx, r.Name)
	case state.Network:
		return e.adapter.DestroyNetwork(ctx, r.Name)
	case state.Volume:
		return e.adapter.DeleteVolume(ctx, r.Ref())
	case state.Domain:
		if err := e.adapter.DestroyDomain(ctx, r.Name); err != nil {
			return err
		}

		return e.adapter.DeleteDomain(ctx, r.Name)
	default:
		return nil
	}
}
