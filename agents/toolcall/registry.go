/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Registry is a Dispatcher backed by a fixed set of tools keyed by name.
// Required arguments declared in each tool's schema are checked before the
// handler runs.
type Registry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

var _ Dispatcher = (*Registry)(nil)

// NewRegistry builds a registry from the given tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(t Tool) error {
	if t.Def.Name == "" {
		return errors.New("tool name is required")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q has no handler", t.Def.Name)
	}
	if t.Def.Schema != nil && t.Def.Schema.Type != "" && t.Def.Schema.Type != "object" {
		return fmt.Errorf("tool %q schema must describe an object, got %q", t.Def.Name, t.Def.Schema.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[t.Def.Name]; ok {
		return fmt.Errorf("tool %q already registered", t.Def.Name)
	}
	r.tools[t.Def.Name] = t
	r.order = append(r.order, t.Def.Name)
	return nil
}

// ListTools implements Dispatcher.
func (r *Registry) ListTools() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Def)
	}
	return defs
}

// CallTool implements Dispatcher.
func (r *Registry) CallTool(ctx context.Context, call ToolCall) (Response, error) {
	r.mu.RLock()
	t, ok := r.tools[call.Name]
	r.mu.RUnlock()
	if !ok {
		return Response{}, NotFound(call.Name)
	}

	if call.Args == nil {
		call.Args = map[string]any{}
	}
	for _, name := range t.Def.Required() {
		if v, ok := call.Args[name]; !ok || v == nil {
			return Response{}, InvalidInputf(call.Name, "missing %s", name)
		}
	}

	resp, err := t.Handler(ctx, call)
	if err != nil {
		var te *Error
		if errors.As(err, &te) {
			return Response{}, err
		}
		return Response{}, InvalidInput(call.Name, err)
	}
	return resp, nil
}
