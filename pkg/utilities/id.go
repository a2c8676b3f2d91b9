package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewRequestID generates a KSUID string used to tag a single HTTP request
// in logs and the X-Request-Id response header.
func NewRequestID() string {
	return ksuid.New().String()
}

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

// NewTokenID generates a snowflake ID string used as the jti claim of
// issued tokens. The node ID comes from SNOWFLAKE_NODE (default 1). If the
// node cannot be initialized it falls back to a KSUID so callers always get
// a unique ID.
func NewTokenID() string {
	nodeOnce.Do(func() {
		nodeID := int64(1)
		if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				nodeID = n
			}
		}
		node, _ = snowflake.NewNode(nodeID)
	})
	if node == nil {
		return NewRequestID()
	}
	return node.Generate().String()
}
