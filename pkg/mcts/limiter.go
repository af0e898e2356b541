package mcts

import (
	"context"
	"strings"
	"sync/atomic"
	"time"
)

type StopReason int

const (
	StopNone      StopReason = 0
	StopInterrupt StopReason = 1 << (iota - 1) // SetStop(true) or a done context
	StopMovetime
	StopNodes
	StopDepth
	StopCycles
)

var stopReasonNames = []struct {
	flag StopReason
	name string
}{
	{StopInterrupt, "Interrupt"},
	{StopMovetime, "Movetime"},
	{StopNodes, "Nodes"},
	{StopDepth, "Depth"},
	{StopCycles, "Cycles"},
}

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	var names []string
	for _, r := range stopReasonNames {
		if sr&r.flag != 0 {
			names = append(names, r.name)
		}
	}
	return strings.Join(names, "|")
}

type LimiterLike interface {
	SetContext(ctx context.Context)
	SetLimits(*Limits)
	Limits() *Limits
	// Milliseconds since the last Reset, at least 1
	Elapsed() uint32
	// Set the stop signal, the search exits on its next check
	SetStop(bool)
	Stop() bool
	// Called on search setup
	Reset()
	// Whether the tree can grow
	Expand() bool
	// Whether the search may continue, checked before every cycle
	Ok(size, depth, cycles uint32) bool
	// Valid after the search ends
	StopReason() StopReason
	// Store the stop reason, called once after the search loop
	EvaluateStopReason(size, depth, cycles uint32)
}

// Search clock, the movetime limit is a deadline relative to the last restart
type clock struct {
	start    time.Time
	deadline time.Time
}

func (c *clock) restart(movetime time.Duration) {
	c.start = time.Now()
	c.deadline = time.Time{}
	if movetime > 0 {
		c.deadline = c.start.Add(movetime)
	}
}

func (c *clock) expired() bool {
	return !c.deadline.IsZero() && !time.Now().Before(c.deadline)
}

func (c *clock) elapsedMs() uint32 {
	return uint32(max(time.Since(c.start).Milliseconds(), 1))
}

type Limiter struct {
	limits *Limits
	clock  clock
	ctx    context.Context
	stop   atomic.Bool
	expand bool
	// limits that are set, computed on Reset
	active StopReason
	reason StopReason
}

func NewLimiter() *Limiter {
	l := &Limiter{
		limits: DefaultLimits(),
		ctx:    context.Background(),
		expand: true,
	}
	l.clock.restart(0)
	return l
}

func flag(val bool, reason StopReason) StopReason {
	if val {
		return reason
	}
	return StopNone
}

func (l *Limiter) Reset() {
	l.clock.restart(l.limits.Movetime)
	l.stop.Store(false)
	l.expand = true
	l.reason = StopNone
	l.active = flag(l.limits.Movetime > 0, StopMovetime) |
		flag(l.limits.Nodes > 0, StopNodes) |
		flag(l.limits.Depth > 0, StopDepth) |
		flag(l.limits.Cycles > 0, StopCycles)
}

func (l *Limiter) SetContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	l.ctx = ctx
}

// Safe to call from another goroutine while the search runs
func (l *Limiter) SetStop(v bool) {
	l.stop.Store(v)
}

func (l *Limiter) Stop() bool {
	if l.ctx.Err() != nil {
		l.stop.Store(true)
	}
	return l.stop.Load()
}

// nil restores DefaultLimits
func (l *Limiter) SetLimits(limits *Limits) {
	if limits == nil {
		limits = DefaultLimits()
	}
	l.limits = limits
}

func (l *Limiter) Limits() *Limits {
	return l.limits
}

func (l *Limiter) Elapsed() uint32 {
	return l.clock.elapsedMs()
}

func (l *Limiter) Expand() bool {
	return l.expand
}

// Bitmask of the reached limits
func (l *Limiter) LimitMask(size, depth, cycles uint32) StopReason {
	reached := flag(l.Stop(), StopInterrupt) |
		flag(l.clock.expired(), StopMovetime) |
		flag(l.limits.Nodes <= size, StopNodes) |
		flag(l.limits.Depth <= int(depth), StopDepth) |
		flag(l.limits.Cycles <= cycles, StopCycles)
	return reached & (l.active | StopInterrupt)
}

// Like LimitMask, but a full tree only disables expansion while
// a cycle or time limit is still running
func (l *Limiter) OkMask(size, depth, cycles uint32) StopReason {
	mask := l.LimitMask(size, depth, cycles)

	if mask&StopNodes != 0 && l.active&(StopMovetime|StopCycles) != 0 {
		l.expand = false
		mask &^= StopNodes
	}
	return mask
}

func (l *Limiter) Ok(size, depth, cycles uint32) bool {
	return l.OkMask(size, depth, cycles) == StopNone
}

func (l *Limiter) EvaluateStopReason(size, depth, cycles uint32) {
	l.reason = l.OkMask(size, depth, cycles)
}

func (l *Limiter) StopReason() StopReason {
	return l.reason
}
