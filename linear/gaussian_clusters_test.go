package linear_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/arithmath/datasets"
	"github.com/YuminosukeSato/arithmath/linear"
)

// trainOnClusters runs the minibatch schedule used by the demo: shuffle,
// batches of 50, learning rate 0.2 decayed by 0.95 per epoch.
func trainOnClusters(t *testing.T, classes, epochs int) (*linear.MultiClassClassifier, []datasets.Cluster) {
	t.Helper()

	src := rand.NewPCG(20240601, 7)
	clusters, err := datasets.DefaultCenters(classes)
	require.NoError(t, err)
	train, err := datasets.Generate(src, clusters, 400)
	require.NoError(t, err)

	clf, err := linear.New(2, classes)
	require.NoError(t, err)

	rate := 0.2
	for epoch := 0; epoch < epochs; epoch++ {
		batches, err := datasets.Minibatches(datasets.Shuffle(src, train), 50)
		require.NoError(t, err)
		for _, batch := range batches {
			_, err := clf.Train(batch, rate)
			require.NoError(t, err)
		}
		rate *= 0.95
	}
	return clf, clusters
}

func heldOutAccuracy(t *testing.T, clf *linear.MultiClassClassifier, c datasets.Cluster, src rand.Source) float64 {
	t.Helper()
	points, err := datasets.Vectors(src, c, 60)
	require.NoError(t, err)
	correct := 0
	for _, p := range points {
		class, err := clf.Predict(p)
		require.NoError(t, err)
		if class == c.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(points))
}

func TestSeparableClustersAreLearned(t *testing.T) {
	clf, clusters := trainOnClusters(t, 2, 60)

	test := rand.NewPCG(99, 100)
	for _, c := range clusters {
		acc := heldOutAccuracy(t, clf, c, test)
		assert.GreaterOrEqual(t, acc, 0.95, "class %d", c.Label)
	}
}

func TestFourClusters(t *testing.T) {
	clf, clusters := trainOnClusters(t, 4, 60)

	test := rand.NewPCG(99, 100)
	total := 0.0
	for _, c := range clusters {
		total += heldOutAccuracy(t, clf, c, test)
	}
	assert.GreaterOrEqual(t, total/float64(len(clusters)), 0.8)
}
