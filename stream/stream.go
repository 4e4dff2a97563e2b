//Package stream defines an append-only partitioned stream reader positioned by cursors
package stream

import (
	"context"
)

//Source reads records from a partitioned stream
type Source interface {
	//Open positions a cursor at LATEST on the earliest-known shard of the stream
	Open(ctx context.Context, streamName string) (*Cursor, error)
	//Read returns records available at cursor and the cursor to use for the next read
	Read(ctx context.Context, cursor *Cursor) (*Batch, error)
}

//Batch represents read result
type Batch struct {
	Records []*Record
	Next    *Cursor
}

//Empty returns true if batch has no records
func (b *Batch) Empty() bool {
	return b == nil || len(b.Records) == 0
}
