package render

// Stats counts the work done since the start of the last Execute, including
// observer callbacks and direct calls made after it.
type Stats struct {
	Frame uint64

	// containers
	Built     int
	Destroyed int

	// nodes inside containers
	NodesBuilt   int
	Rebuilt      int
	NodesRemoved int

	// syncs that only moved a container
	Repositioned int

	AssetBatches int
}

// Stats returns the counters of the current frame.
func (s *System) Stats() Stats {
	return s.stats
}
