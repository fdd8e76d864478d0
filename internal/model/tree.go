package model

import (
	"fmt"
	"slices"
)

const leafNode = -1

// TreeNodes holds a fitted binary decision tree in parallel arrays, the same
// layout scikit-learn exposes on tree_. Node 0 is the root.
type TreeNodes struct {
	ChildrenLeft  []int       `json:"children_left" msgpack:"children_left"`
	ChildrenRight []int       `json:"children_right" msgpack:"children_right"`
	Feature       []int       `json:"feature" msgpack:"feature"`
	Threshold     []float64   `json:"threshold" msgpack:"threshold"`
	Value         [][]float64 `json:"value" msgpack:"value"`
}

// DecisionTree is an immutable classifier over a fixed feature schema.
type DecisionTree struct {
	Kind         string    `json:"kind" msgpack:"kind"`
	FeatureNames []string  `json:"feature_names" msgpack:"feature_names"`
	Classes      []int     `json:"classes" msgpack:"classes"`
	Nodes        TreeNodes `json:"nodes" msgpack:"nodes"`
}

// Validate checks the structural integrity of the tree so that prediction
// can never index out of range or loop.
func (t *DecisionTree) Validate() error {
	if t.Kind != "" && t.Kind != "decision_tree" {
		return fmt.Errorf("unsupported model kind %q", t.Kind)
	}
	if len(t.FeatureNames) == 0 {
		return fmt.Errorf("model has no feature names")
	}
	if len(t.Classes) < 2 {
		return fmt.Errorf("model must have at least 2 classes, got %d", len(t.Classes))
	}

	n := len(t.Nodes.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("model has no nodes")
	}
	if len(t.Nodes.ChildrenRight) != n || len(t.Nodes.Feature) != n ||
		len(t.Nodes.Threshold) != n || len(t.Nodes.Value) != n {
		return fmt.Errorf("node arrays have mismatched lengths")
	}

	for i := 0; i < n; i++ {
		left, right := t.Nodes.ChildrenLeft[i], t.Nodes.ChildrenRight[i]
		if left == leafNode {
			if right != leafNode {
				return fmt.Errorf("node %d: leaf with a right child", i)
			}
			if len(t.Nodes.Value[i]) != len(t.Classes) {
				return fmt.Errorf("node %d: expected %d class values, got %d", i, len(t.Classes), len(t.Nodes.Value[i]))
			}
			continue
		}
		// children always come after their parent in a fitted tree
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("node %d: child index out of range", i)
		}
		if f := t.Nodes.Feature[i]; f < 0 || f >= len(t.FeatureNames) {
			return fmt.Errorf("node %d: feature index %d out of range", i, f)
		}
	}

	return nil
}

func (t *DecisionTree) leaf(x []float64) (int, error) {
	if len(x) != len(t.FeatureNames) {
		return 0, fmt.Errorf("expected %d features, got %d", len(t.FeatureNames), len(x))
	}

	node := 0
	for t.Nodes.ChildrenLeft[node] != leafNode {
		// scikit-learn compares on float32 inputs
		v := float64(float32(x[t.Nodes.Feature[node]]))
		if v <= t.Nodes.Threshold[node] {
			node = t.Nodes.ChildrenLeft[node]
		} else {
			node = t.Nodes.ChildrenRight[node]
		}
	}
	return node, nil
}

// PredictProba returns the class probabilities for x, ordered as Classes.
func (t *DecisionTree) PredictProba(x []float64) ([]float64, error) {
	node, err := t.leaf(x)
	if err != nil {
		return nil, err
	}

	counts := t.Nodes.Value[node]
	var total float64
	for _, c := range counts {
		total += c
	}

	proba := make([]float64, len(counts))
	if total == 0 {
		return proba, nil
	}
	for i, c := range counts {
		proba[i] = c / total
	}
	return proba, nil
}

// Predict returns the class with the highest probability. Ties go to the
// first class.
func (t *DecisionTree) Predict(x []float64) (int, error) {
	proba, err := t.PredictProba(x)
	if err != nil {
		return 0, err
	}

	best := 0
	for i := 1; i < len(proba); i++ {
		if proba[i] > proba[best] {
			best = i
		}
	}
	return t.Classes[best], nil
}

// ClassIndex returns the position of class in Classes, or -1.
func (t *DecisionTree) ClassIndex(class int) int {
	return slices.Index(t.Classes, class)
}

func (t *DecisionTree) Depth() int {
	var walk func(node int) int
	walk = func(node int) int {
		if t.Nodes.ChildrenLeft[node] == leafNode {
			return 0
		}
		return 1 + max(walk(t.Nodes.ChildrenLeft[node]), walk(t.Nodes.ChildrenRight[node]))
	}
	return walk(0)
}

func (t *DecisionTree) LeafCount() int {
	count := 0
	for _, left := range t.Nodes.ChildrenLeft {
		if left == leafNode {
			count++
		}
	}
	return count
}
