package mcts

type SearchLine struct {
	BestMove int
	Moves    []int
	Eval     float64
	Visits   int32
	Terminal bool
	Draw     bool
}

type ListenerTreeStats struct {
	Maxdepth   int
	Cycles     int
	TimeMs     int
	Cps        uint32
	Size       uint32
	RootVisits int32
	Lines      []SearchLine
	StopReason StopReason
}

// Convert tree statistics to 'ListenerTreeStats' struct
func toListenerStats(tree *Tree) ListenerTreeStats {
	var lines []SearchLine
	if root := tree.Node(tree.Root()); anyVisited(tree, root.Children) {
		best := tree.BestChild(tree.Root(), BestChildMostVisits)
		pv, terminal, draw := tree.Pv(best, BestChildMostVisits, true)
		child := tree.Node(best)
		lines = []SearchLine{{
			BestMove: child.Move,
			Moves:    pv,
			Eval:     float64(child.AvgQ()),
			Visits:   child.N(),
			Terminal: terminal,
			Draw:     draw,
		}}
	}

	return ListenerTreeStats{
		Lines:      lines,
		Maxdepth:   tree.MaxDepth(),
		Cycles:     tree.Cycles(),
		TimeMs:     int(tree.Limiter.Elapsed()),
		Cps:        tree.Cps(),
		Size:       uint32(tree.Size()),
		RootVisits: tree.Node(tree.Root()).N(),
		StopReason: tree.Limiter.StopReason(),
	}
}

// Listener function callback, will receive current tree statistics, like
// max depth of tree, number of iterations so far
type ListenerFunc func(ListenerTreeStats)

type StatsListener struct {
	// called when 'max depth' increases
	onDepth ListenerFunc

	// called every N full iterations
	onCycle ListenerFunc
	nCycles int // call 'onCycle' every N cycles

	// called when the search stops (either by limiter or 'stop' signal)
	onStop ListenerFunc
}

func NewStatsListener() *StatsListener {
	return &StatsListener{nCycles: 1}
}

// Attach new on max depth change callback
func (listener *StatsListener) OnDepth(onDepth ListenerFunc) *StatsListener {
	listener.onDepth = onDepth
	return listener
}

// Attach new on iteration increase callback, this will significantly slow down the search,
// because of pv evaluation, so use it only for debugging or with a large interval
func (listener *StatsListener) OnCycle(onCycle ListenerFunc) *StatsListener {
	listener.onCycle = onCycle
	return listener
}

func (listener *StatsListener) SetCycleInterval(n int) *StatsListener {
	listener.nCycles = max(n, 1)
	return listener
}

// Attach 'on search end' callback, makes 'StopReason' available in the stats
func (listener *StatsListener) OnStop(onStop ListenerFunc) *StatsListener {
	listener.onStop = onStop
	return listener
}

func (listener *StatsListener) invokeCycle(tree *Tree) {
	if listener.onCycle != nil && tree.Cycles()%listener.nCycles == 0 {
		listener.onCycle(toListenerStats(tree))
	}
}

func (listener *StatsListener) invoke(f ListenerFunc, tree *Tree) {
	if f != nil {
		f(toListenerStats(tree))
	}
}
