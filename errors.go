package flowgrid

import "errors"

// Sentinel errors for the invariant violations the core solver treats as
// fatal: anything under this list aborts the offending call rather than
// attempting a fallback. There is no recoverable layer in the core package.
var (
	ErrDimCellMismatch  = errors.New("flowgrid: dim.X*dim.Y does not match cell slice length")
	ErrIndexOutOfRange  = errors.New("flowgrid: index out of range")
	ErrStencilBounds    = errors.New("flowgrid: stencil min/max out of range")
	ErrStencilOddDim    = errors.New("flowgrid: parallel stencil requires even interior dimensions")
	ErrNonPositiveDelta = errors.New("flowgrid: dt must be positive")
	ErrObjectKind       = errors.New("flowgrid: object is not the requested kind")
)
