package mcts

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"testing"

	"github.com/IlikeChooros/go-szemeredi/pkg/progression"
)

func TestMain(m *testing.M) {
	SetSeedGeneratorFn(func() int64 {
		return 42
	})
	fmt.Printf("Using seed %d\n", SeedGeneratorFn())
	os.Exit(m.Run())
}

func seq(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

func newIndex(t *testing.T, k int, values []int) *progression.Index {
	t.Helper()
	index, err := progression.New(k, values)
	if err != nil {
		t.Fatal(err)
	}
	return index
}

func searchedTree(t *testing.T, cycles uint32, opts ...Option) *Tree {
	t.Helper()
	index := newIndex(t, 3, seq(1, 15))
	opts = append([]Option{WithLimits(DefaultLimits().SetCycles(cycles))}, opts...)
	tree, err := NewTree(index, seq(1, 15), nil, nil, opts...)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tree.Search(context.Background()); err != nil {
		t.Fatal(err)
	}
	return tree
}

// Visit counts must add up: a node gets one visit for its own rollout,
// plus everything that passed through it
func checkCounters(t *testing.T, tree *Tree, id NodeID) {
	t.Helper()
	node := tree.Node(id)

	if node.Q() < 0 || float64(node.Q()) > float64(node.N()) {
		t.Fatalf("node %d: wins %.1f outside [0, %d]", id, node.Q(), node.N())
	}

	sum := int32(0)
	for _, child := range node.Children {
		if tree.Node(child).Parent != id {
			t.Fatalf("child %d of %d points to parent %d", child, id, tree.Node(child).Parent)
		}
		sum += tree.Node(child).N()
		checkCounters(t, tree, child)
	}

	if len(node.Children) == 0 {
		return
	}
	// A root that was never a leaf has no rollout of its own
	if node.N() != sum+1 && !(id == tree.Root() && node.N() == sum) {
		t.Fatalf("node %d: visits %d, children visits %d", id, node.N(), sum)
	}
}

func TestSearchCounters(t *testing.T) {
	tree := searchedTree(t, DefaultIterations)

	// root is never a leaf here, so it has exactly one visit per cycle
	root := tree.Node(tree.Root())
	if root.N() != int32(DefaultIterations) || tree.Cycles() != int(DefaultIterations) {
		t.Fatalf("root visits %d, cycles %d, want %d", root.N(), tree.Cycles(), DefaultIterations)
	}
	if len(root.Children) != 15 || !root.Expanded() {
		t.Fatalf("root should be fully expanded, has %d children", len(root.Children))
	}
	if tree.StopReason() != StopCycles {
		t.Errorf("stop reason %s, want Cycles", tree.StopReason())
	}
	if tree.Size() < 16 {
		t.Errorf("tree size %d, want at least 16", tree.Size())
	}
	checkCounters(t, tree, tree.Root())
}

func TestSearchZeroSumCounters(t *testing.T) {
	tree := searchedTree(t, 500, WithBackprop(ZeroSum{}))
	checkCounters(t, tree, tree.Root())
}

func TestExpansionOrder(t *testing.T) {
	index := newIndex(t, 3, seq(1, 10))
	tree, err := NewTree(index, []int{4, 9, 1, 7}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Last available move is expanded first
	want := []int{7, 1, 9, 4}
	for i, move := range want {
		child := tree.Expand(tree.Root())
		if got := tree.Node(child).Move; got != move {
			t.Fatalf("expansion %d: got move %d, want %d", i, got, move)
		}
	}
	if !tree.Node(tree.Root()).Expanded() {
		t.Fatal("root should be fully expanded")
	}
	if tree.Expand(tree.Root()) != tree.Root() {
		t.Fatal("expanding a fully expanded node must return the node itself")
	}
}

func TestSearchFindsImmediateWin(t *testing.T) {
	// 1, 2, 3 wins, while 19 leads to a draw
	index := newIndex(t, 3, []int{1, 2, 3, 8, 14, 19})
	tree, err := NewTree(index, []int{3, 19}, []int{1, 2}, []int{8, 14})
	if err != nil {
		t.Fatal(err)
	}

	move, err := tree.Search(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if move != 3 {
		t.Fatalf("got move %d, want 3", move)
	}

	pv, terminal, draw := tree.Pv(tree.Root(), BestChildMostVisits, false)
	if len(pv) != 1 || pv[0] != 3 || !terminal || draw {
		t.Fatalf("pv %v terminal=%v draw=%v", pv, terminal, draw)
	}
	if score := tree.RootScore(); score != 1 {
		t.Fatalf("winning move scored %.2f", score)
	}
}

func TestSearchTerminalRoot(t *testing.T) {
	index := newIndex(t, 3, seq(1, 6))

	cases := []struct {
		name        string
		available   []int
		own, opp    []int
		wantOutcome Result
	}{
		{"own progression", []int{4, 5, 6}, []int{1, 2, 3}, nil, 1},
		{"opponent progression", []int{1, 3, 5}, nil, []int{2, 4, 6}, 0},
		{"no moves", nil, []int{1, 2, 4}, []int{3, 5, 6}, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := NewTree(index, tc.available, tc.own, tc.opp)
			if err != nil {
				t.Fatal(err)
			}
			root := tree.Node(tree.Root())
			if !root.Terminal() || root.Outcome() != tc.wantOutcome {
				t.Fatalf("terminal=%v outcome=%.1f", root.Terminal(), root.Outcome())
			}
			if _, err := tree.Search(context.Background()); !errors.Is(err, ErrTerminalRoot) {
				t.Fatalf("got %v, want ErrTerminalRoot", err)
			}
		})
	}
}

func TestNewTreeUnknownValue(t *testing.T) {
	index := newIndex(t, 3, seq(1, 6))
	if _, err := NewTree(index, []int{1, 7}, nil, nil); err == nil {
		t.Fatal("expected an error for a value outside the universe")
	}
	if _, err := NewTree(index, []int{1}, []int{9}, nil); err == nil {
		t.Fatal("expected an error for a held value outside the universe")
	}
}

func TestSearchCancelled(t *testing.T) {
	index := newIndex(t, 3, seq(1, 10))
	tree, err := NewTree(index, seq(1, 10), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = tree.Search(ctx)
	if !errors.Is(err, ErrNoChildren) || !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want ErrNoChildren wrapping context.Canceled", err)
	}
	if tree.StopReason()&StopInterrupt != StopInterrupt {
		t.Fatalf("stop reason %s, want Interrupt", tree.StopReason())
	}
}

func TestSearchDeterministic(t *testing.T) {
	first := searchedTree(t, 300, WithRand(rand.New(rand.NewSource(7))))
	second := searchedTree(t, 300, WithRand(rand.New(rand.NewSource(7))))

	a, _ := first.RootMove()
	b, _ := second.RootMove()
	if a != b || first.Size() != second.Size() {
		t.Fatalf("same seed gave move %d (size %d) and %d (size %d)", a, first.Size(), b, second.Size())
	}
}

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected a panic", name)
		}
	}()
	f()
}

func TestBestChildPanics(t *testing.T) {
	index := newIndex(t, 3, seq(1, 10))
	tree, err := NewTree(index, seq(1, 10), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	expectPanic(t, "no children", func() { tree.BestChild(tree.Root(), BestChildMostVisits) })
	expectPanic(t, "no children uct", func() { tree.BestChild(tree.Root(), BestChildUCT) })

	tree.Expand(tree.Root())
	expectPanic(t, "unvisited children", func() { tree.BestChild(tree.Root(), BestChildMostVisits) })

	// Unvisited children are preferred by the selection
	if child := tree.BestChild(tree.Root(), BestChildUCT); tree.Node(child).Move != 10 {
		t.Fatalf("uct picked %d", tree.Node(child).Move)
	}
	if _, ok := tree.RootMove(); ok {
		t.Fatal("RootMove should fail without visited children")
	}
}

func TestUCB1PicksFirstMaximum(t *testing.T) {
	index := newIndex(t, 3, seq(1, 10))
	tree, err := NewTree(index, seq(1, 10), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	a := tree.Expand(tree.Root())
	b := tree.Expand(tree.Root())
	c := tree.Expand(tree.Root())
	for _, id := range []NodeID{a, b, c} {
		tree.backprop.Backpropagate(tree, id, 0.5)
	}

	if got := tree.BestChild(tree.Root(), BestChildUCT); got != a {
		t.Fatalf("tie should go to the first child, got %d want %d", got, a)
	}
	if got := tree.BestChild(tree.Root(), BestChildMostVisits); got != a {
		t.Fatalf("visit tie should go to the first child, got %d want %d", got, a)
	}

	tree.backprop.Backpropagate(tree, c, 1)
	if got := tree.BestChild(tree.Root(), BestChildMostVisits); got != c {
		t.Fatalf("most visited is %d, got %d", c, got)
	}
}

func countSubtree(tree *Tree, id NodeID) int {
	n := 1
	for _, child := range tree.Node(id).Children {
		n += countSubtree(tree, child)
	}
	return n
}

func TestDetach(t *testing.T) {
	tree := searchedTree(t, DefaultIterations)

	best := tree.BestChild(tree.Root(), BestChildMostVisits)
	old := tree.Node(best)
	pv, _, _ := tree.Pv(best, BestChildMostVisits, false)

	detached := tree.Detach(best)
	root := detached.Node(detached.Root())

	if root.Parent != NoNode {
		t.Fatalf("detached root has parent %d", root.Parent)
	}
	if root.N() != old.N() || root.Q() != old.Q() || root.Move != old.Move {
		t.Fatalf("detached root stats differ: %v vs %v", root.NodeStats, old.NodeStats)
	}
	if detached.Size() != countSubtree(tree, best) {
		t.Fatalf("detached size %d, subtree size %d", detached.Size(), countSubtree(tree, best))
	}
	if detached.MaxDepth() >= tree.MaxDepth() {
		t.Fatalf("detached depth %d, original %d", detached.MaxDepth(), tree.MaxDepth())
	}

	newPv, _, _ := detached.Pv(detached.Root(), BestChildMostVisits, false)
	if len(newPv) != len(pv) {
		t.Fatalf("pv changed after detaching, was %v, now %v", pv, newPv)
	}
	for i := range pv {
		if pv[i] != newPv[i] {
			t.Fatalf("pv changed after detaching, was %v, now %v", pv, newPv)
		}
	}

	checkCounters(t, detached, detached.Root())
}

func TestCacheReuse(t *testing.T) {
	tree := searchedTree(t, 2000)
	cache := NewCache()

	best := tree.BestChild(tree.Root(), BestChildMostVisits)
	cache.Remember(tree, best)

	// Opponent answers with its most searched reply
	reply := tree.BestChild(best, BestChildMostVisits)
	visits := tree.Node(reply).N()
	own := []int{tree.Node(best).Move}
	opp := []int{tree.Node(reply).Move}

	reused, ok := cache.Reuse(tree.Index(), own, opp, WithLimits(DefaultLimits().SetCycles(100)))
	if !ok {
		t.Fatal("expected the grandchild to be reused")
	}
	if !cache.Empty() {
		t.Fatal("cache should be cleared after reuse")
	}

	root := reused.Node(reused.Root())
	if root.N() != visits {
		t.Fatalf("reused root has %d visits, want %d", root.N(), visits)
	}
	if !root.State().OwnTurn() || root.State().Len() != 13 {
		t.Fatalf("reused root state: own turn %v, moves left %d", root.State().OwnTurn(), root.State().Len())
	}

	if _, err := reused.Search(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := reused.Node(reused.Root()).N(); got != visits+100 {
		t.Fatalf("root visits after search %d, want %d", got, visits+100)
	}
	checkCounters(t, reused, reused.Root())
}

func TestCacheMiss(t *testing.T) {
	tree := searchedTree(t, 500)
	cache := NewCache()

	if _, ok := cache.Reuse(tree.Index(), nil, nil); ok {
		t.Fatal("empty cache must miss")
	}

	best := tree.BestChild(tree.Root(), BestChildMostVisits)
	move := tree.Node(best).Move

	// Held sets that no grandchild has
	cache.Remember(tree, best)
	if _, ok := cache.Reuse(tree.Index(), []int{move}, nil); ok {
		t.Fatal("position without the opponent reply must miss")
	}
	if !cache.Empty() {
		t.Fatal("cache should be cleared after a miss")
	}

	// Different universe
	cache.Remember(tree, best)
	other := newIndex(t, 3, seq(1, 16))
	reply := tree.Node(tree.Node(best).Children[0]).Move
	if _, ok := cache.Reuse(other, []int{move}, []int{reply}); ok {
		t.Fatal("different universe must miss")
	}

	// Same universe, different index instance
	cache.Remember(tree, best)
	same := newIndex(t, 3, seq(1, 15))
	if _, ok := cache.Reuse(same, []int{move}, []int{reply}); !ok {
		t.Fatal("equal universe should hit")
	}
}

func TestSearchWithListener(t *testing.T) {
	depthCalls, cycleCalls, stopCalls := 0, 0, 0
	listener := NewStatsListener().
		OnDepth(func(stats ListenerTreeStats) { depthCalls++ }).
		OnCycle(func(stats ListenerTreeStats) {
			cycleCalls++
			if len(stats.Lines) == 0 {
				t.Error("cycle stats without a main line")
			}
		}).
		SetCycleInterval(100).
		OnStop(func(stats ListenerTreeStats) {
			stopCalls++
			t.Logf("stop reason %s after %d cycles, maxdepth %d pv %v",
				stats.StopReason, stats.Cycles, stats.Maxdepth, stats.Lines[0].Moves)
			if stats.StopReason != StopCycles {
				t.Errorf("stop reason %s", stats.StopReason)
			}
		})

	tree := searchedTree(t, 1000, WithListener(listener))
	if cycleCalls != 10 || stopCalls != 1 {
		t.Fatalf("cycle calls %d, stop calls %d", cycleCalls, stopCalls)
	}
	if depthCalls != tree.MaxDepth() {
		t.Fatalf("depth calls %d, max depth %d", depthCalls, tree.MaxDepth())
	}
}

func TestNodeLimitStopsGrowth(t *testing.T) {
	index := newIndex(t, 3, seq(1, 15))
	tree, err := NewTree(index, seq(1, 15), nil, nil,
		WithLimits(DefaultLimits().SetCycles(500).SetNodes(50)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tree.Search(context.Background()); err != nil {
		t.Fatal(err)
	}

	if tree.Size() > 51 {
		t.Fatalf("tree grew to %d nodes", tree.Size())
	}
	if tree.Cycles() != 500 {
		t.Fatalf("cycles %d, want 500", tree.Cycles())
	}
}
