package consumer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/viant/lambdagate/shared"
	"github.com/viant/lambdagate/stream"
	"io"
	"unicode/utf8"
)

//decode decodes record payload as a single JSON value, numbers are kept as json.Number
func decode(record *stream.Record) (interface{}, error) {
	if !utf8.Valid(record.Data) {
		return nil, shared.NewDecodeFailed(fmt.Sprintf("record %v is not valid UTF-8", record.SequenceNumber), nil)
	}
	decoder := json.NewDecoder(bytes.NewReader(record.Data))
	decoder.UseNumber()
	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return nil, shared.NewDecodeFailed(fmt.Sprintf("malformed record %v", record.SequenceNumber), err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, shared.NewDecodeFailed(fmt.Sprintf("trailing data in record %v", record.SequenceNumber), err)
	}
	return value, nil
}

func decodeAll(records []*stream.Record) ([]interface{}, error) {
	var result = make([]interface{}, 0, len(records))
	for _, record := range records {
		value, err := decode(record)
		if err != nil {
			return nil, err
		}
		result = append(result, value)
	}
	return result, nil
}
