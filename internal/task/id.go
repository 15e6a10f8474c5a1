package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// ID identifies a task for its whole lifetime.
type ID string

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts both string and numeric ids. Older payloads stored
// millisecond timestamps as bare numbers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("task id is null")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

type IDSource interface {
	NewID() ID
}

// UUIDs issues random v4 ids.
type UUIDs struct{}

func (UUIDs) NewID() ID { return ID(uuid.NewString()) }

// Counter issues monotonically increasing numeric ids starting after Start.
type Counter struct {
	Start int64
	n     atomic.Int64
}

func (c *Counter) NewID() ID {
	return ID(strconv.FormatInt(c.Start+c.n.Add(1), 10))
}
