//go:build !cgo || !mediagraph

package graph

// Available reports whether Open can construct native graphs.
const Available = false

// Open returns ErrNotAvailable when the native runtime is not linked in.
func Open(cfg Config) (Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return nil, ErrNotAvailable
}
