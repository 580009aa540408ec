package classify

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultMaxDepth caps tree depth so tiny batches are not memorized.
	DefaultMaxDepth = 10

	// DefaultMinSamplesLeaf is the smallest number of rows a leaf may hold.
	DefaultMinSamplesLeaf = 1
)

// TreeConfig bounds decision tree growth.
type TreeConfig struct {
	// MaxDepth limits the number of splits on any path. 0 means unbounded.
	MaxDepth int
	// MinSamplesLeaf is the minimum number of training rows per leaf.
	MinSamplesLeaf int
}

// DefaultTreeConfig returns a TreeConfig with default limits.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		MaxDepth:       DefaultMaxDepth,
		MinSamplesLeaf: DefaultMinSamplesLeaf,
	}
}

// Node is a decision tree node. Rows with x[Feature] <= Threshold go left.
// Leaves have no children.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
	// Counts holds the training class counts that reached this node.
	Counts []float64 `json:"counts"`
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil || n.Right == nil
}

// Tree is a fitted CART-style classification tree using Gini impurity.
type Tree struct {
	Root       *Node `json:"root"`
	NumClasses int   `json:"num_classes"`
	Depth      int   `json:"depth"`
}

type treeBuilder struct {
	x   *mat.Dense
	y   []int
	k   int
	cfg TreeConfig
}

func fitTree(x *mat.Dense, y []int, rows []int, k int, cfg TreeConfig) *Tree {
	if cfg.MinSamplesLeaf < 1 {
		cfg.MinSamplesLeaf = 1
	}
	b := &treeBuilder{x: x, y: y, k: k, cfg: cfg}
	t := &Tree{NumClasses: k}
	t.Root = b.build(rows, 0, &t.Depth)
	return t
}

func (b *treeBuilder) build(rows []int, depth int, maxSeen *int) *Node {
	if depth > *maxSeen {
		*maxSeen = depth
	}
	counts := make([]float64, b.k)
	for _, r := range rows {
		counts[b.y[r]]++
	}
	node := &Node{Counts: counts}

	if isPure(counts) ||
		(b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth) ||
		len(rows) < 2*b.cfg.MinSamplesLeaf {
		return node
	}

	s, ok := b.bestSplit(rows, gini(counts, float64(len(rows))))
	if !ok {
		return node
	}

	var left, right []int
	for _, r := range rows {
		if b.x.At(r, s.feature) <= s.threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	node.Feature = s.feature
	node.Threshold = s.threshold
	node.Left = b.build(left, depth+1, maxSeen)
	node.Right = b.build(right, depth+1, maxSeen)
	return node
}

type split struct {
	feature   int
	threshold float64
	impurity  float64
}

const impurityEpsilon = 1e-12

// bestSplit scans every feature and midpoint threshold. The first split with
// the lowest weighted impurity wins, scanning features in column order and
// thresholds in ascending order. A split must improve on the parent.
func (b *treeBuilder) bestSplit(rows []int, parent float64) (split, bool) {
	_, nFeatures := b.x.Dims()
	n := float64(len(rows))
	best := split{impurity: parent}
	found := false

	sorted := make([]int, len(rows))
	left := make([]float64, b.k)
	right := make([]float64, b.k)

	for f := 0; f < nFeatures; f++ {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.x.At(sorted[i], f) < b.x.At(sorted[j], f)
		})

		for c := range left {
			left[c] = 0
			right[c] = 0
		}
		for _, r := range sorted {
			right[b.y[r]]++
		}

		for i := 0; i < len(sorted)-1; i++ {
			cls := b.y[sorted[i]]
			left[cls]++
			right[cls]--

			v, next := b.x.At(sorted[i], f), b.x.At(sorted[i+1], f)
			if v == next {
				continue
			}
			nl := float64(i + 1)
			nr := n - nl
			if int(nl) < b.cfg.MinSamplesLeaf || int(nr) < b.cfg.MinSamplesLeaf {
				continue
			}
			imp := (nl*gini(left, nl) + nr*gini(right, nr)) / n
			if imp < best.impurity-impurityEpsilon {
				best = split{feature: f, threshold: (v + next) / 2, impurity: imp}
				found = true
			}
		}
	}
	return best, found
}

func gini(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := c / n
		sum += p * p
	}
	return 1 - sum
}

func isPure(counts []float64) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func (t *Tree) leaf(x []float64) *Node {
	n := t.Root
	for !n.IsLeaf() {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n
}

func (t *Tree) predictProba(x []float64) []float64 {
	counts := t.leaf(x).Counts
	total := 0.0
	for _, c := range counts {
		total += c
	}
	proba := make([]float64, t.NumClasses)
	if total == 0 {
		return proba
	}
	for i, c := range counts {
		proba[i] = c / total
	}
	return proba
}
