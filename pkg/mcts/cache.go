package mcts

import (
	"slices"

	"github.com/IlikeChooros/go-szemeredi/pkg/progression"
)

// Keeps the tree of the previous decision of one player, so the next decision
// can continue from the grandchild matching the position after both moves.
// Owned by the caller (one per player per game), not safe for concurrent use.
type Cache struct {
	tree *Tree
	node NodeID
}

func NewCache() *Cache {
	return &Cache{node: NoNode}
}

// Forget the remembered tree, call at the start of every game
func (c *Cache) Reset() {
	c.tree = nil
	c.node = NoNode
}

// Remember 'node' (usually the chosen root child) of 'tree' for the next decision
func (c *Cache) Remember(tree *Tree, node NodeID) {
	c.tree = tree
	c.node = node
}

// Whether anything is remembered
func (c *Cache) Empty() bool {
	return c.tree == nil
}

// Look for a child of the remembered node whose held sets equal 'own' and 'opp',
// over the same universe and progression length. On success returns that subtree,
// detached into a new tree with 'opts' applied. The cache is cleared either way.
func (c *Cache) Reuse(index *progression.Index, own, opp []int, opts ...Option) (*Tree, bool) {
	defer c.Reset()

	if c.tree == nil || c.node == NoNode || !sameIndex(c.tree.index, index) {
		return nil, false
	}

	ownBits, oppBits := index.Bits(own), index.Bits(opp)
	for _, id := range c.tree.Node(c.node).Children {
		st := c.tree.Node(id).State()
		if st.ownTurn && st.own.Equal(ownBits) && st.opp.Equal(oppBits) {
			tree := c.tree.Detach(id)
			tree.apply(opts...)
			return tree, true
		}
	}

	return nil, false
}

func sameIndex(a, b *progression.Index) bool {
	if a == b {
		return true
	}
	return a.K() == b.K() && slices.Equal(a.Universe(), b.Universe())
}
