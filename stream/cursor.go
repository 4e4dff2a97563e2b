package stream

import "fmt"

//Cursor represents stream read position; once read, the token must not be reused
type Cursor struct {
	StreamName    string
	ShardID       string
	IteratorToken string
}

//Advance returns a cursor with next iterator token
func (c Cursor) Advance(token string) *Cursor {
	c.IteratorToken = token
	return &c
}

//Closed returns true when cursor can not be read anymore, i.e. shard was closed or iterator expired
func (c *Cursor) Closed() bool {
	return c == nil || c.IteratorToken == ""
}

func (c *Cursor) String() string {
	return fmt.Sprintf("%v/%v", c.StreamName, c.ShardID)
}
