// SPDX-License-Identifier: MIT

package manager

import (
	"fmt"
	"sort"
)

// PropertyKey names a property at a fixed (order, layer).
type PropertyKey struct {
	Order int
	Layer int
	Name  string
}

// String implements fmt.Stringer.
func (k PropertyKey) String() string {
	return fmt.Sprintf("%s@(order=%d, layer=%d)", k.Name, k.Order, k.Layer)
}

// storage is the type-erased view the registry keeps of a Property.
type storage interface {
	Key() PropertyKey
	Len() int
	Clear()
}

// Registry holds the properties attached to one manager.
type Registry struct {
	owner Manager
	props map[PropertyKey]storage
}

// NewRegistry returns an empty registry owned by m.
func NewRegistry(owner Manager) *Registry {
	return &Registry{owner: owner, props: make(map[PropertyKey]storage)}
}

// Owner returns the manager the registry belongs to.
func (r *Registry) Owner() Manager { return r.owner }

// Keys returns the registered keys sorted by order, layer, name.
func (r *Registry) Keys() []PropertyKey {
	keys := make([]PropertyKey, 0, len(r.props))
	for k := range r.props {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}

		return a.Name < b.Name
	})

	return keys
}

// Clear empties every property; registrations survive.
func (r *Registry) Clear() {
	for _, p := range r.props {
		p.Clear()
	}
}

func (r *Registry) find(order int, name string) (storage, bool) {
	for k, p := range r.props {
		if k.Order == order && k.Name == name {
			return p, true
		}
	}

	return nil, false
}

// Property is an append-only per-cluster store bound to one (order, layer)
// of its owner. Values are indexed by the owner's cluster index.
type Property[T any] struct {
	owner  Manager
	key    PropertyKey
	values []T
}

// NewProperty returns an unregistered property bound to owner's current
// layer for order.
func NewProperty[T any](owner Manager, order int, name string) (*Property[T], error) {
	layer, err := owner.Layer(order)
	if err != nil {
		return nil, err
	}

	return &Property[T]{owner: owner, key: PropertyKey{Order: order, Layer: layer, Name: name}}, nil
}

// Attach creates a property on m and registers it under (order, layer, name).
//
// Errors: ErrOrderMismatch for an order m does not provide, ErrPropertyExists
// when the key is taken.
func Attach[T any](m Manager, order int, name string) (*Property[T], error) {
	p, err := NewProperty[T](m, order, name)
	if err != nil {
		return nil, err
	}
	reg := m.Properties()
	if _, ok := reg.props[p.key]; ok {
		return nil, fmt.Errorf("%s: %s: %w", m.Name(), p.key, ErrPropertyExists)
	}
	reg.props[p.key] = p

	return p, nil
}

// Lookup finds the property name for order on m or on any manager m wraps,
// searching top down.
//
// Errors: ErrPropertyNotFound, ErrPropertyType when the stored value type is not T.
func Lookup[T any](m Manager, order int, name string) (*Property[T], error) {
	for cur := m; cur != nil; cur = cur.Underlying() {
		if s, ok := cur.Properties().find(order, name); ok {
			return typed[T](s)
		}
	}

	return nil, fmt.Errorf("%s (order %d): %w", name, order, ErrPropertyNotFound)
}

// LookupKey is Lookup with an exact layer.
func LookupKey[T any](m Manager, key PropertyKey) (*Property[T], error) {
	for cur := m; cur != nil; cur = cur.Underlying() {
		if s, ok := cur.Properties().props[key]; ok {
			return typed[T](s)
		}
	}

	return nil, fmt.Errorf("%s: %w", key, ErrPropertyNotFound)
}

func typed[T any](s storage) (*Property[T], error) {
	p, ok := s.(*Property[T])
	if !ok {
		return nil, fmt.Errorf("%s: %w", s.Key(), ErrPropertyType)
	}

	return p, nil
}

// Key returns the binding of p.
func (p *Property[T]) Key() PropertyKey { return p.key }

// Owner returns the manager p is bound to.
func (p *Property[T]) Owner() Manager { return p.owner }

// Len returns the number of stored values.
func (p *Property[T]) Len() int { return len(p.values) }

// Clear drops all values.
func (p *Property[T]) Clear() { p.values = p.values[:0] }

// Push appends v as the value of the next cluster.
func (p *Property[T]) Push(v T) { p.values = append(p.values, v) }

// Resize grows or truncates the store to n zero-valued entries.
func (p *Property[T]) Resize(n int) {
	if n <= cap(p.values) {
		old := len(p.values)
		p.values = p.values[:n]
		var zero T
		for i := old; i < n; i++ {
			p.values[i] = zero
		}

		return
	}
	grown := make([]T, n)
	copy(grown, p.values)
	p.values = grown
}

// ResizeToClusters sizes the store to the owner's cluster count.
func (p *Property[T]) ResizeToClusters() error {
	n, err := p.owner.NbClusters(p.key.Order)
	if err != nil {
		return err
	}
	p.Resize(n)

	return nil
}

// At returns the value stored for the owner's cluster index i.
func (p *Property[T]) At(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(p.values) {
		return zero, fmt.Errorf("%s[%d]: %w", p.key, i, ErrClusterIndex)
	}

	return p.values[i], nil
}

// SetAt stores v for the owner's cluster index i.
func (p *Property[T]) SetAt(i int, v T) error {
	if i < 0 || i >= len(p.values) {
		return fmt.Errorf("%s[%d]: %w", p.key, i, ErrClusterIndex)
	}
	p.values[i] = v

	return nil
}

// Values returns a copy of all stored values.
func (p *Property[T]) Values() []T { return append([]T(nil), p.values...) }

// Get returns the value of cluster c, resolving c's index down to the owner.
//
// Errors: ErrOrderMismatch when c has a different order, ErrLayerMismatch when
// the owner is not in c's chain, ErrClusterIndex when no value is stored yet.
func (p *Property[T]) Get(c ClusterRef) (T, error) {
	var zero T
	i, err := p.index(c)
	if err != nil {
		return zero, err
	}

	return p.At(i)
}

// Set stores v for cluster c. The slot must exist (Push or Resize first).
func (p *Property[T]) Set(c ClusterRef, v T) error {
	i, err := p.index(c)
	if err != nil {
		return err
	}

	return p.SetAt(i, v)
}

func (p *Property[T]) index(c ClusterRef) (int, error) {
	if c.order != p.key.Order {
		return 0, fmt.Errorf("%s: cluster order %d: %w", p.key, c.order, ErrOrderMismatch)
	}

	return IndexIn(c.mgr, c.order, c.index, p.owner)
}
