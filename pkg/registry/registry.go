// Package registry provides the strategy registry at the heart of herald.
// A Registry maps a string discriminator (e.g. "email", "sms") to a
// constructor for some capability-bearing variant, and resolves a
// discriminator to a freshly built instance at runtime.
//
// Discriminators are case-insensitive: "Email", "EMAIL" and "email" all
// name the same registration. An unknown discriminator is always an error,
// never a silent fallback.
//
// The registry is an explicitly constructed value. There is deliberately no
// package-level instance; the composition root owns one and hands it to
// consumers by parameter.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Constructor builds a fresh variant instance. Constructors must be
// side-effect-free beyond allocating the returned value.
type Constructor[T any] func() T

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	// ErrDuplicate indicates a second registration for the same discriminator.
	ErrDuplicate = errors.New("registry: duplicate discriminator")
	// ErrUnknown indicates a lookup for an unregistered discriminator.
	ErrUnknown = errors.New("registry: unknown discriminator")
	// ErrSealed indicates a registration attempt after Seal().
	ErrSealed = errors.New("registry: sealed")
	// ErrInvalid indicates an empty discriminator or nil constructor.
	ErrInvalid = errors.New("registry: invalid discriminator or constructor")
)

// DuplicateError reports a discriminator that is already registered.
// It matches ErrDuplicate via errors.Is.
type DuplicateError struct {
	Discriminator string // normalized form
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("registry: duplicate discriminator %q", e.Discriminator)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// UnknownError reports a discriminator with no registration. It carries the
// requested discriminator and the sorted set of valid ones so callers can
// produce an actionable message. It matches ErrUnknown via errors.Is.
type UnknownError struct {
	Requested string   // normalized form of what the caller asked for
	Valid     []string // sorted registered discriminators at lookup time
}

func (e *UnknownError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("registry: unknown discriminator %q (no registrations)", e.Requested)
	}
	return fmt.Sprintf("registry: unknown discriminator %q (valid: %s)",
		e.Requested, strings.Join(e.Valid, ", "))
}

func (e *UnknownError) Is(target error) bool { return target == ErrUnknown }

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// Registry maps normalized discriminators to constructors for T.
// It is safe for concurrent use: lookups take a read lock, registrations
// a write lock. Typical usage registers everything during process setup
// and only resolves afterwards.
type Registry[T any] struct {
	mu     sync.RWMutex
	ctors  map[string]Constructor[T]
	sealed atomic.Bool
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{ctors: make(map[string]Constructor[T])}
}

// normalize is applied identically on Register and Create so that a
// discriminator registered as "Email" resolves as "email" or "EMAIL".
func normalize(discriminator string) string {
	return strings.ToLower(strings.TrimSpace(discriminator))
}

// Register binds a constructor to a discriminator. It fails with a
// *DuplicateError if the normalized discriminator is already taken,
// and with ErrSealed after Seal() has been called.
func (r *Registry[T]) Register(discriminator string, ctor Constructor[T]) error {
	if r.sealed.Load() {
		return ErrSealed
	}
	key := normalize(discriminator)
	if key == "" || ctor == nil {
		return ErrInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ctors[key]; exists {
		return &DuplicateError{Discriminator: key}
	}
	r.ctors[key] = ctor
	return nil
}

// MustRegister panics on registration error. For setup code where a
// duplicate is a programming bug.
func (r *Registry[T]) MustRegister(discriminator string, ctor Constructor[T]) {
	if err := r.Register(discriminator, ctor); err != nil {
		panic(err)
	}
}

// Create resolves the discriminator and invokes the bound constructor,
// returning a newly built instance. It fails with an *UnknownError carrying
// the requested discriminator and the sorted valid set when nothing matches.
// Create never mutates registry state.
func (r *Registry[T]) Create(discriminator string) (T, error) {
	key := normalize(discriminator)

	r.mu.RLock()
	ctor, ok := r.ctors[key]
	var valid []string
	if !ok {
		valid = r.keysLocked()
	}
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, &UnknownError{Requested: key, Valid: valid}
	}
	return ctor(), nil
}

// Has reports whether a discriminator is registered.
func (r *Registry[T]) Has(discriminator string) bool {
	key := normalize(discriminator)
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[key]
	return ok
}

// Keys returns the registered discriminators in sorted order.
func (r *Registry[T]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keysLocked()
}

// keysLocked must be called with at least a read lock held.
func (r *Registry[T]) keysLocked() []string {
	keys := make([]string, 0, len(r.ctors))
	for k := range r.ctors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registrations.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ctors)
}

// Seal ends the setup phase: all further Register calls fail with ErrSealed.
// Idempotent. Returns true if this call flipped the state.
func (r *Registry[T]) Seal() bool { return !r.sealed.Swap(true) }

// Sealed reports whether Seal has been called.
func (r *Registry[T]) Sealed() bool { return r.sealed.Load() }
