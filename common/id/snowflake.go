package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

// epochMillis is 2024-01-01T00:00:00Z. Every row key (conversations,
// shifts, pauses, sla events, audit rows) is minted from this epoch.
const epochMillis int64 = 1704067200000

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
// The API server and the sweep worker must run with distinct node IDs.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		snowflake.Epoch = epochMillis
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new globally unique, time-ordered int64 ID.
func New() int64 {
	return node.Generate().Int64()
}
