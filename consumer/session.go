package consumer

import (
	"github.com/google/uuid"
	"github.com/viant/lambdagate/stream"
	"sync"
)

//Session owns a stream cursor; a single Consume call advances it at a time
type Session struct {
	ID     string
	mux    sync.Mutex
	cursor *stream.Cursor
}

//Cursor returns current cursor
func (s *Session) Cursor() *stream.Cursor {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.cursor
}

//NewSession creates a session without a cursor, it is opened on first use
func NewSession() *Session {
	return &Session{ID: uuid.New().String()}
}
