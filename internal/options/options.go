// Package options implements the functional option pattern used across chainsum.
//
// A package declares its config struct and a type alias for its options:
//
//	type ReadConfig struct{ CommentPrefix string }
//	type ReadOption = options.Option[*ReadConfig]
//
// Options that cannot fail are built with NoError, options that validate their
// input with New. Apply runs them in order and stops at the first error.
package options

// Option configures a target of type T.
type Option[T any] interface {
	apply(T) error
}

type funcOption[T any] struct {
	fn func(T) error
}

func (o funcOption[T]) apply(target T) error {
	return o.fn(target)
}

// New wraps a validating setter as an Option.
func New[T any](fn func(T) error) Option[T] {
	return funcOption[T]{fn: fn}
}

// NoError wraps a setter that cannot fail as an Option.
func NoError[T any](fn func(T)) Option[T] {
	return funcOption[T]{fn: func(target T) error {
		fn(target)
		return nil
	}}
}

// Apply applies opts to target in order. Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
