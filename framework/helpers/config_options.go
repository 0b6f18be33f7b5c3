package helpers

// ConfigOption is one functional option of type T, such as a resttest.SessionOption. Option
// types declare themselves as ConfigOption[TheirConfig] and are applied with ApplyOptions.
type ConfigOption[T any] interface {
	Configure(*T) error
}

// OptionFunc is a ConfigOption implemented by a function.
type OptionFunc[T any] func(*T) error

func (f OptionFunc[T]) Configure(target *T) error { return f(target) }

// ApplyOptions applies options to target in order and stops at the first error. The U
// parameter lets callers pass a slice of their own named option type.
func ApplyOptions[T any, U ConfigOption[T]](target *T, options ...U) error {
	for _, option := range options {
		if err := option.Configure(target); err != nil {
			return err
		}
	}
	return nil
}
