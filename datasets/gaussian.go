// Package datasets generates reproducible synthetic classification data.
//
// Every function takes the random source explicitly; nothing reads global
// random state. Two calls with equally seeded sources return equal data.
package datasets

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/arithmath/core/vector"
	"github.com/YuminosukeSato/arithmath/linear"
	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

// Gaussian samples from a normal distribution N(Mean, StdDev²).
type Gaussian struct {
	Mean   float64
	StdDev float64

	dist distuv.Normal
}

// NewGaussian returns a sampler drawing from src.
func NewGaussian(mean, stdDev float64, src rand.Source) Gaussian {
	return Gaussian{
		Mean:   mean,
		StdDev: stdDev,
		dist:   distuv.Normal{Mu: mean, Sigma: stdDev, Src: src},
	}
}

// Rand draws one sample.
func (g Gaussian) Rand() float64 {
	return g.dist.Rand()
}

// Cluster is an isotropic Gaussian blob of points sharing one label.
type Cluster struct {
	Center []float64
	StdDev float64
	Label  int
}

func (c Cluster) validate() error {
	if len(c.Center) == 0 {
		return errors.NewValidationError("center", "must have at least one coordinate", c.Center)
	}
	if c.StdDev < 0 {
		return errors.NewValidationError("std_dev", "must be non-negative", c.StdDev)
	}
	if c.Label < 0 {
		return errors.NewValidationError("label", "must be non-negative", c.Label)
	}
	return nil
}

// Vectors draws n unlabeled points from cluster.
func Vectors(src rand.Source, cluster Cluster, n int) ([]vector.Vector, error) {
	if err := cluster.validate(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.NewValidationError("n", "must be non-negative", n)
	}

	samplers := make([]Gaussian, len(cluster.Center))
	for d, mu := range cluster.Center {
		samplers[d] = NewGaussian(mu, cluster.StdDev, src)
	}

	out := make([]vector.Vector, n)
	point := make([]float64, len(cluster.Center))
	for i := range out {
		for d, g := range samplers {
			point[d] = g.Rand()
		}
		out[i] = vector.New(point)
	}
	return out, nil
}

// Generate draws perCluster labeled points from each cluster, cluster by
// cluster. All clusters must have the same dimension.
func Generate(src rand.Source, clusters []Cluster, perCluster int) ([]linear.LabeledExample, error) {
	if len(clusters) == 0 {
		return nil, errors.NewValidationError("clusters", "must not be empty", 0)
	}
	dimension := len(clusters[0].Center)

	examples := make([]linear.LabeledExample, 0, len(clusters)*perCluster)
	for _, c := range clusters {
		if len(c.Center) != dimension {
			return nil, errors.NewDimensionError("datasets.Generate", dimension, len(c.Center), 1)
		}
		points, err := Vectors(src, c, perCluster)
		if err != nil {
			return nil, err
		}
		for _, p := range points {
			examples = append(examples, linear.LabeledExample{Value: p, Label: c.Label})
		}
	}
	return examples, nil
}

var defaultCenters = [][]float64{
	{-2, 2},
	{2, -2},
	{0, 0},
	{2, 2},
}

// MaxDefaultClusters is the number of built-in cluster centers.
const MaxDefaultClusters = 4

// DefaultCenters returns k unit-variance clusters labeled 0..k-1 at
// (-2,2), (2,-2), (0,0) and (2,2), in that order.
func DefaultCenters(k int) ([]Cluster, error) {
	if k <= 0 || k > MaxDefaultClusters {
		return nil, errors.NewValidationError("classes", "must be between 1 and 4", k)
	}
	clusters := make([]Cluster, k)
	for i := range clusters {
		clusters[i] = Cluster{
			Center: append([]float64(nil), defaultCenters[i]...),
			StdDev: 1,
			Label:  i,
		}
	}
	return clusters, nil
}
