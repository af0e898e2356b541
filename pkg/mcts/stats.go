package mcts

// Visits and summed playout results of a node
type NodeStats struct {
	q float64
	n int32
}

// Mean result, 0 for an unvisited node
func (s *NodeStats) AvgQ() Result {
	if s.n == 0 {
		return 0
	}
	return Result(s.q / float64(s.n))
}

func (s *NodeStats) Q() Result {
	return Result(s.q)
}

func (s *NodeStats) N() int32 {
	return s.n
}

// Record 'visits' visits that scored 'result' in total
func (s *NodeStats) Add(result Result, visits int32) {
	s.q += float64(result)
	s.n += visits
}
