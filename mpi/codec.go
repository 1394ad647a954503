package mpi

import (
	"bytes"

	"github.com/davecgh/go-xdr/xdr2"
)

func encodeMessage(msg Message) ([]byte, error) {
	var w bytes.Buffer
	if _, err := xdr.Marshal(&w, &msg); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func decodeMessage(b []byte) (Message, error) {
	var msg Message
	_, err := xdr.Unmarshal(bytes.NewReader(b), &msg)
	return msg, err
}
