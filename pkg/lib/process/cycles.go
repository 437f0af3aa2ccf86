package process

// cycleCounter accumulates the CPU cycles spent by a child and its descendants.
type cycleCounter interface {
	Read() (uint64, error)
	Close() error
}
