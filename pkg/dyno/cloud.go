package dyno

// Point is a 3D coordinate in the trajectory's reference frame.
type Point struct {
	X, Y, Z float64
}

// FeatureCloud is the 3D point cloud of one superfeature: the feature's
// weighted center plus the per-frame feature positions collected over the
// trajectory. Clouds come from the PML export and are optional.
type FeatureCloud struct {
	// ID matches the superfeature the cloud belongs to.
	ID string
	// Center is the frequency-weighted cloud center.
	Center Point
	// Points holds the individual cloud points in file order.
	Points []Point
}

// NumPoints returns the number of cloud points, the center excluded.
func (c *FeatureCloud) NumPoints() int { return len(c.Points) }
