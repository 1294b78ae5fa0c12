package types

// TableRenderer is implemented by command results that know how to lay
// themselves out as a table. Empty results render EmptyMessage instead.
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
	EmptyMessage() string
}

// TableRenderable adapts a result into a TableRenderer, for types whose
// natural shape (a wire struct, a slice) is not itself table-layable.
type TableRenderable interface {
	AsTableRenderer() TableRenderer
}
