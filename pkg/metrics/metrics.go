package metrics

// HistogramBuckets are the latency buckets, in milliseconds, shared by
// request duration histograms. Account and content endpoints normally
// answer well under a second; the long tail covers slow provider
// round-trips (auth, storage, mailing list).
var HistogramBuckets = []float64{
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	750, 1000, 1500, 2000,
	3000, 5000, 7500, 10000, 15000,
	30000, 60000,
}
