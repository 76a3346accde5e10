package model

import (
	"fmt"
)

// TreeNode is one node of a fitted decision tree. Leaf nodes have
// Left == -1 and carry the probability of the positive class in Value.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a fitted decision tree stored as a flat node array rooted at
// index 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Forest is a fitted random forest; the predicted probability is the
// mean of the per-tree leaf probabilities.
type Forest struct {
	Trees []Tree `json:"trees"`
}

// PredictProbability averages the leaf probabilities of every tree.
func (m *Forest) PredictProbability(vector []float64) (float64, error) {
	if len(m.Trees) == 0 {
		return 0, fmt.Errorf("forest model has no trees")
	}

	sum := 0.0
	for i := range m.Trees {
		p, err := m.Trees[i].predict(vector)
		if err != nil {
			return 0, err
		}
		sum += p
	}

	return sum / float64(len(m.Trees)), nil
}

func (t *Tree) predict(vector []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, fmt.Errorf("tree has no nodes")
	}

	idx := 0
	for {
		node := t.Nodes[idx]
		if node.Left < 0 {
			return node.Value, nil
		}
		if node.Feature < 0 || node.Feature >= len(vector) {
			return 0, fmt.Errorf("tree references feature %d outside vector of length %d", node.Feature, len(vector))
		}
		if vector[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("tree child index %d out of range", idx)
		}
	}
}
