package ports

// HostProbe reads instantaneous host resource usage. Both reads are
// stateless; an error affects only the metric it would have produced.
type HostProbe interface {
	CPUPercent() (float64, error)
	MemoryPercent() (float64, error)
}
