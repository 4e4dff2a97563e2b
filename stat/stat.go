package stat

import (
	"github.com/viant/gmetric"
	"github.com/viant/gmetric/counter"
	"sync"
	"time"
)

const (
	//ErrorKey any error
	ErrorKey = "error"
	//Pending in-flight operations
	Pending = "pending"
)

//Values collects values reported when an operation ends
type Values struct {
	mux    sync.Mutex
	values []interface{}
}

//Append appends a value (error or metric key)
func (v *Values) Append(value interface{}) {
	if value == nil {
		return
	}
	if err, ok := value.(error); ok && err == nil {
		return
	}
	v.mux.Lock()
	v.values = append(v.values, value)
	v.mux.Unlock()
}

//Values returns collected values
func (v *Values) Values() []interface{} {
	v.mux.Lock()
	defer v.mux.Unlock()
	return append([]interface{}{}, v.values...)
}

//NewValues creates values collector
func NewValues() *Values {
	return &Values{}
}

type provider struct {
	keys  []string
	index map[string]int
}

func (p *provider) Keys() []string {
	return p.keys
}

func (p *provider) Map(value interface{}) int {
	if value == nil {
		return -1
	}
	if _, ok := value.(error); ok {
		return 0
	}
	key, ok := value.(string)
	if !ok {
		return -1
	}
	if idx, ok := p.index[key]; ok {
		return idx
	}
	return -1
}

//NewProvider creates counter provider, ErrorKey and Pending are always the first keys
func NewProvider(keys ...string) counter.Provider {
	ret := &provider{keys: append([]string{ErrorKey, Pending}, keys...), index: map[string]int{}}
	for i, key := range ret.keys {
		ret.index[key] = i
	}
	return ret
}

//Begin starts measuring an operation
func Begin(operation *gmetric.Operation) (counter.OnDone, *Values) {
	onDone := operation.Begin(time.Now())
	operation.IncrementValue(Pending)
	return onDone, NewValues()
}

//End ends operation measurement
func End(operation *gmetric.Operation, onDone counter.OnDone, values *Values) {
	operation.DecrementValue(Pending)
	onDone(time.Now(), values.Values()...)
}
