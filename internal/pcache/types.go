package pcache

import (
	"github.com/go-strata/strata"
)

// PartitionCache is a key-addressed store for materialized Partitions.
// Because task keys are deterministic content-based fingerprints, a cache
// hit for a key is always a valid substitute for recomputing that task.
type PartitionCache interface {
	Put(key string, value strata.OperablePartition) // Put caches a Partition under a task key
	Get(key string) (strata.OperablePartition, error) // Get retrieves a cached Partition, or an error on a miss
	Destroy()                                       // Destroy removes all cached data, including anything spilled to disk
}
