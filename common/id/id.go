package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node used for event ids.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a time-ordered int64 id. Init must have been called.
func New() int64 {
	return node.Generate().Int64()
}

// NewRequestID returns a random (v4) UUID string used as X-Request-ID.
func NewRequestID() string {
	return uuid.NewString()
}
