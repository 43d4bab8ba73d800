package pcache

import (
	"bytes"
	"container/list"
	"fmt"
	"log"
	"os"
	"path"
	"sync"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/go-strata/strata"
	"github.com/go-strata/strata/internal/partition"
)

// lru is an LRU PartitionCache with two tiers: recently used Partitions are
// held uncompressed, older ones are compressed with lz4, and the oldest are
// spilled to disk when a DiskPath is configured.
type lru struct {
	config               *LRUConfig
	lock                 sync.Mutex
	serializer           *partition.LZ4PartitionSerializer
	pmap                 map[string]*list.Element
	recentList           *list.List // back is oldest, front is newest
	compressedPmap       map[string]*list.Element
	recentCompressedList *list.List // back is oldest, front is newest
	maxUncompressed      int
	maxCompressed        int
	spilled              map[string]strata.Schema
}

type cachedPartition struct {
	key   string
	value strata.OperablePartition
}

type cachedCompressedPartition struct {
	key    string
	value  []byte
	schema strata.Schema
}

// LRUConfig configures an LRU PartitionCache
type LRUConfig struct {
	Size               int
	CompressedFraction float32
	DiskPath           string
}

// NewLRU produces an LRU PartitionCache
func NewLRU(config *LRUConfig) PartitionCache {
	if config.Size < 2 {
		log.Panicf("LRUConfig.Size %d must be at least 2", config.Size)
	}
	if config.CompressedFraction < 0 || config.CompressedFraction > 1 {
		log.Panicf("LRUConfig.CompressedFraction %f must be between 0 and 1", config.CompressedFraction)
	}
	maxUncompressed := int(float32(config.Size) * (1 - config.CompressedFraction))
	if maxUncompressed < 1 {
		maxUncompressed = 1
	}
	return &lru{
		config:               config,
		serializer:           partition.NewLZ4PartitionSerializer(),
		pmap:                 make(map[string]*list.Element),
		recentList:           list.New(),
		compressedPmap:       make(map[string]*list.Element),
		recentCompressedList: list.New(),
		maxUncompressed:      maxUncompressed,
		maxCompressed:        config.Size - maxUncompressed,
		spilled:              make(map[string]strata.Schema),
	}
}

// Put caches a Partition under a task key
func (c *lru) Put(key string, value strata.OperablePartition) {
	c.lock.Lock()
	defer c.lock.Unlock()
	// a key may be resident in any tier
	if _, ok := c.pmap[key]; ok {
		return
	}
	if _, ok := c.compressedPmap[key]; ok {
		return
	}
	if _, ok := c.spilled[key]; ok {
		return
	}
	c.pmap[key] = c.recentList.PushFront(&cachedPartition{key: key, value: value})
	c.evictLocked()
}

// Get retrieves a cached Partition, promoting it back to the uncompressed
// tier, or returns an error on a miss
func (c *lru) Get(key string) (strata.OperablePartition, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if e, ok := c.pmap[key]; ok {
		c.recentList.MoveToFront(e)
		return e.Value.(*cachedPartition).value, nil
	}
	if e, ok := c.compressedPmap[key]; ok {
		cached := e.Value.(*cachedCompressedPartition)
		value, err := c.serializer.Decompress(bytes.NewReader(cached.value), cached.schema)
		if err != nil {
			return nil, err
		}
		c.recentCompressedList.Remove(e)
		delete(c.compressedPmap, key)
		c.pmap[key] = c.recentList.PushFront(&cachedPartition{key: key, value: value})
		c.evictLocked()
		return value, nil
	}
	if schema, ok := c.spilled[key]; ok {
		return c.readFromDiskLocked(key, schema)
	}
	return nil, fmt.Errorf("Partition cache does not contain key %s", key)
}

// Destroy removes all cached data, including anything spilled to disk
func (c *lru) Destroy() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.pmap = make(map[string]*list.Element)
	c.recentList.Init()
	c.compressedPmap = make(map[string]*list.Element)
	c.recentCompressedList.Init()
	for key := range c.spilled {
		os.Remove(c.diskPathFor(key))
	}
	c.spilled = make(map[string]strata.Schema)
}

// evictLocked demotes partitions down the tiers until each tier fits.
// The caller must hold c.lock.
func (c *lru) evictLocked() {
	for len(c.pmap) > c.maxUncompressed {
		oldest := c.recentList.Back()
		cached := oldest.Value.(*cachedPartition)
		c.recentList.Remove(oldest)
		delete(c.pmap, cached.key)

		var buf bytes.Buffer
		if err := c.serializer.Compress(&buf, cached.value); err != nil {
			log.Printf("unable to compress evicted partition %s: %v", cached.key, err)
			continue
		}
		compressed := &cachedCompressedPartition{key: cached.key, value: buf.Bytes(), schema: cached.value.GetSchema()}
		c.compressedPmap[cached.key] = c.recentCompressedList.PushFront(compressed)
	}
	for len(c.compressedPmap) > c.maxCompressed {
		oldest := c.recentCompressedList.Back()
		cached := oldest.Value.(*cachedCompressedPartition)
		c.recentCompressedList.Remove(oldest)
		delete(c.compressedPmap, cached.key)
		if c.config.DiskPath == "" {
			continue // no spill directory, so the oldest entries are simply dropped
		}
		if err := os.WriteFile(c.diskPathFor(cached.key), cached.value, 0644); err != nil {
			log.Printf("unable to spill partition %s to disk: %v", cached.key, err)
			continue
		}
		c.spilled[cached.key] = cached.schema
	}
}

// readFromDiskLocked loads a spilled partition. The caller must hold c.lock.
func (c *lru) readFromDiskLocked(key string, schema strata.Schema) (strata.OperablePartition, error) {
	raw, err := os.ReadFile(c.diskPathFor(key))
	if err != nil {
		return nil, err
	}
	return c.serializer.Decompress(bytes.NewReader(raw), schema)
}

func (c *lru) diskPathFor(key string) string {
	return path.Join(c.config.DiskPath, fmt.Sprintf("%016x.strata", xxhash.Sum64String(key)))
}
