//go:build cgo && mediagraph

package graph

/*
#cgo LDFLAGS: -lmediagraph
#include <stdlib.h>
#include "mediagraph.h"
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/ayusman/mediagraph/internal/frame"
	"github.com/ayusman/mediagraph/internal/landmark"
)

// The output buffer is handed to C as mg_landmark; both layouts are five
// packed 32-bit floats.
var _ [unsafe.Sizeof(landmark.Landmark{}) - unsafe.Sizeof(C.mg_landmark{})]struct{}
var _ [unsafe.Sizeof(C.mg_landmark{}) - unsafe.Sizeof(landmark.Landmark{})]struct{}

// Available reports whether Open can construct native graphs.
const Available = true

type nativeBackend struct {
	g         *C.mg_graph
	outputs   int
	landmarks int
	scratch   []landmark.Landmark
}

// Open builds the native graph described by cfg.
func Open(cfg Config) (Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	text := C.CString(cfg.Text)
	defer C.free(unsafe.Pointer(text))
	node := C.CString(cfg.OutputNode)
	defer C.free(unsafe.Pointer(node))

	var cerr *C.char
	g := C.mg_graph_create(text, node, &cerr)
	if g == nil {
		msg := "unknown error"
		if cerr != nil {
			msg = C.GoString(cerr)
			C.mg_free(unsafe.Pointer(cerr))
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrInitFailed, cfg.Name, msg)
	}

	return NewHandle(cfg, &nativeBackend{
		g:         g,
		outputs:   cfg.Outputs,
		landmarks: cfg.Landmarks,
		scratch:   make([]landmark.Landmark, cfg.Outputs*cfg.Landmarks),
	})
}

func (b *nativeBackend) Process(v frame.View, outputs [][]landmark.Landmark) bool {
	ret := C.mg_graph_process(
		b.g,
		(*C.uint8_t)(unsafe.Pointer(&v.Pix[0])),
		C.int(v.Width),
		C.int(v.Height),
		C.int(v.Stride),
		(*C.mg_landmark)(unsafe.Pointer(&b.scratch[0])),
		C.int(b.outputs),
		C.int(b.landmarks),
	)

	for i, out := range outputs {
		copy(out, b.scratch[i*b.landmarks:(i+1)*b.landmarks])
	}

	return ret != 0
}

func (b *nativeBackend) Close() error {
	C.mg_graph_destroy(b.g)
	b.g = nil
	return nil
}
