package bench

// Distributes the arena's events between several listeners, in order
type ArenaListener struct {
	listeners []Listener
}

func NewArenaListener(listeners ...Listener) *ArenaListener {
	al := &ArenaListener{listeners: make([]Listener, 0, len(listeners))}
	for _, l := range listeners {
		al.Add(l)
	}
	return al
}

// Add a listener, nil is ignored
func (al *ArenaListener) Add(l Listener) *ArenaListener {
	if l != nil {
		al.listeners = append(al.listeners, l)
	}
	return al
}

func (al *ArenaListener) OnStart(info StartInfo) {
	for _, l := range al.listeners {
		l.OnStart(info)
	}
}

func (al *ArenaListener) OnMoveMade(info MoveInfo) {
	for _, l := range al.listeners {
		l.OnMoveMade(info)
	}
}

func (al *ArenaListener) OnFinishedGame(info ProgressInfo) {
	for _, l := range al.listeners {
		l.OnFinishedGame(info)
	}
}

func (al *ArenaListener) OnFinishedWork(results *Results) {
	for _, l := range al.listeners {
		l.OnFinishedWork(results)
	}
}
