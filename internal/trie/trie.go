// Package trie implements the nucleotide prefix trie used by the adapter
// inference probe to form a consensus extension from a seed k-mer.
package trie

const (
	// dominantMinCount is the absolute count floor a child must reach to be
	// considered on the dominant path.
	dominantMinCount = 5
	// dominantFraction is the minimum fraction of the parent's count a
	// child must carry to be considered dominant.
	dominantFraction = 0.5
)

type node struct {
	children [4]*node
	count    int
}

func baseIndex(b byte) int {
	switch b {
	case 'A':
		return 0
	case 'T':
		return 1
	case 'C':
		return 2
	case 'G':
		return 3
	default:
		return -1
	}
}

var indexBase = [4]byte{'A', 'T', 'C', 'G'}

// Trie counts the sequences added to it and exposes a dominant-path
// consensus descent.
type Trie struct {
	root *node
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{root: &node{}}
}

// Add inserts seq into the trie, incrementing the visit count of every
// node along its path. Bases other than A/T/C/G terminate insertion early.
func (t *Trie) Add(seq string) {
	cur := t.root
	for i := 0; i < len(seq); i++ {
		idx := baseIndex(seq[i])
		if idx < 0 {
			return
		}
		if cur.children[idx] == nil {
			cur.children[idx] = &node{}
		}
		cur = cur.children[idx]
		cur.count++
	}
}

// DominantPath performs a depth-first descent always choosing the child
// with the maximum visit count, stopping when no child reaches both
// dominantMinCount and dominantFraction of the parent's count. reachedLeaf
// reports whether the descent stopped because the current node has no
// children at all (a confident termination), as opposed to stopping
// because no child cleared the dominance threshold.
func (t *Trie) DominantPath() (path string, reachedLeaf bool) {
	cur := t.root
	parentCount := -1 // root has no meaningful count; first level is unconstrained by the root's own count
	var out []byte
	for {
		bestIdx := -1
		bestCount := -1
		anyChild := false
		for i, child := range cur.children {
			if child == nil {
				continue
			}
			anyChild = true
			if child.count > bestCount {
				bestCount = child.count
				bestIdx = i
			}
		}
		if !anyChild {
			return string(out), true
		}
		if parentCount >= 0 {
			if bestCount < dominantMinCount || float64(bestCount) < dominantFraction*float64(parentCount) {
				return string(out), false
			}
		} else {
			if bestCount < dominantMinCount {
				return string(out), false
			}
		}
		out = append(out, indexBase[bestIdx])
		cur = cur.children[bestIdx]
		parentCount = cur.count
	}
}
