package stream

//Record represents stream record
type Record struct {
	PartitionKey   string
	SequenceNumber string
	Data           []byte
}

//NewRecord creates a record
func NewRecord(partitionKey, sequenceNumber string, data []byte) *Record {
	return &Record{PartitionKey: partitionKey, SequenceNumber: sequenceNumber, Data: data}
}
