package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stumpTree splits on feature 0 at 10: left leaf mostly class 0, right leaf
// mostly class 1.
func stumpTree() *DecisionTree {
	return &DecisionTree{
		Kind:         "decision_tree",
		FeatureNames: []string{"amt", "hour"},
		Classes:      []int{0, 1},
		Nodes: TreeNodes{
			ChildrenLeft:  []int{1, -1, -1},
			ChildrenRight: []int{2, -1, -1},
			Feature:       []int{0, -2, -2},
			Threshold:     []float64{10, -2, -2},
			Value:         [][]float64{{50, 50}, {45, 5}, {5, 45}},
		},
	}
}

func TestDecisionTree_Validate(t *testing.T) {
	require.NoError(t, stumpTree().Validate())

	tests := []struct {
		name   string
		mutate func(*DecisionTree)
	}{
		{"unknown kind", func(d *DecisionTree) { d.Kind = "forest" }},
		{"no features", func(d *DecisionTree) { d.FeatureNames = nil }},
		{"one class", func(d *DecisionTree) { d.Classes = []int{0} }},
		{"no nodes", func(d *DecisionTree) { d.Nodes = TreeNodes{} }},
		{"mismatched arrays", func(d *DecisionTree) { d.Nodes.Threshold = d.Nodes.Threshold[:2] }},
		{"child out of range", func(d *DecisionTree) { d.Nodes.ChildrenRight[0] = 7 }},
		{"child loops back", func(d *DecisionTree) { d.Nodes.ChildrenLeft[0] = 0 }},
		{"feature out of range", func(d *DecisionTree) { d.Nodes.Feature[0] = 5 }},
		{"leaf value width", func(d *DecisionTree) { d.Nodes.Value[1] = []float64{1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := stumpTree()
			tt.mutate(tree)
			assert.Error(t, tree.Validate())
		})
	}
}

func TestDecisionTree_Predict(t *testing.T) {
	tree := stumpTree()

	label, err := tree.Predict([]float64{10, 3})
	require.NoError(t, err)
	assert.Equal(t, 0, label, "threshold is inclusive on the left")

	proba, err := tree.PredictProba([]float64{10, 3})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.9, 0.1}, proba, 1e-9)

	label, err = tree.Predict([]float64{10.5, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	_, err = tree.Predict([]float64{1})
	assert.Error(t, err)
}

func TestDecisionTree_PredictTieGoesToFirstClass(t *testing.T) {
	tree := stumpTree()
	tree.Nodes.Value[1] = []float64{25, 25}

	label, err := tree.Predict([]float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}

func TestDecisionTree_Shape(t *testing.T) {
	tree := stumpTree()
	assert.Equal(t, 1, tree.Depth())
	assert.Equal(t, 2, tree.LeafCount())
	assert.Equal(t, 1, tree.ClassIndex(1))
	assert.Equal(t, -1, tree.ClassIndex(3))
}

func TestLabelEncoder_RoundTrip(t *testing.T) {
	enc, err := NewLabelEncoder([]string{"F", "M"})
	require.NoError(t, err)

	for _, v := range []string{"F", "M"} {
		code, ok := enc.Transform(v)
		require.True(t, ok)
		back, ok := enc.InverseTransform(code)
		require.True(t, ok)
		assert.Equal(t, v, back)
	}

	_, ok := enc.Transform("X")
	assert.False(t, ok)

	_, ok = enc.InverseTransform(2)
	assert.False(t, ok)
}

func TestNewLabelEncoder_Errors(t *testing.T) {
	_, err := NewLabelEncoder(nil)
	assert.Error(t, err)

	_, err = NewLabelEncoder([]string{"a", "a"})
	assert.Error(t, err)
}

func TestReadEncoders(t *testing.T) {
	input := `{"gender": ["F", "M"], "state": ["CA", "NC", "TX"]}`

	encoders, err := ReadEncoders(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"gender", "state"}, encoders.Columns())

	code, ok := encoders["state"].Transform("NC")
	assert.True(t, ok)
	assert.Equal(t, 1, code)

	_, err = ReadEncoders(strings.NewReader(`{}`), FormatJSON)
	assert.Error(t, err)
}

func TestTree_MsgpackRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, stumpTree(), FormatMsgpack))

	tree, err := ReadTree(&buf, FormatMsgpack)
	require.NoError(t, err)
	assert.Equal(t, stumpTree(), tree)
}

func TestReadTree_RejectsUnknownFields(t *testing.T) {
	_, err := ReadTree(strings.NewReader(`{"kind":"decision_tree","weights":[1]}`), FormatJSON)
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("model.JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = FormatFromPath("model.mpk")
	require.NoError(t, err)
	assert.Equal(t, FormatMsgpack, f)

	_, err = FormatFromPath("model.pkl")
	assert.Error(t, err)
}
