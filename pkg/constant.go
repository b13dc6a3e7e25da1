package pkg

const (
	INF_WEIGHT float64 = 1e15

	EARTH_RADIUS_KM = 6371.0

	// relative tolerance used when comparing a reported route distance
	// against the sum of the edge weights along the returned path.
	DISTANCE_SUM_REL_TOLERANCE = 1e-9
)

const (
	DEBUG = false
)
