package modkit

// Module is the common surface for service modules: a name for logs and a port set
// for cross wiring. Keep this tiny so modules stay decoupled
type Module interface {
	// Ports returns a module specific port set
	Ports() any

	// Name returns the module name
	Name() string
}
