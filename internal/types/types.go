// Package types contains common interfaces shared by the uri and params packages.
package types

import "io"

// Renderer is an interface that is used to render a type to a string or a writer.
type Renderer interface {
	// Render renders the type to a string with the given options.
	Render(opts *RenderOptions) string
	// RenderTo renders the type to a writer with the given options.
	RenderTo(w io.Writer, opts *RenderOptions) (int, error)
}

// RenderOptions is a struct that is used to pass options to rendering methods.
type RenderOptions struct {
	// MaskSecrets replaces passwords with a fixed mask instead of revealing them.
	MaskSecrets bool `json:"mask_secrets,omitempty"`
}

// ShouldMask reports whether secrets must be masked. Nil options reveal secrets.
func (opts *RenderOptions) ShouldMask() bool {
	return opts != nil && opts.MaskSecrets
}

type ValidFlag interface {
	IsValid() bool
}

// IsValid returns true if the value has method `IsValid() bool` and it returns true.
func IsValid(v any) bool {
	vv, ok := v.(ValidFlag)
	return ok && vv.IsValid()
}

type Equalable interface {
	Equal(val any) bool
}
