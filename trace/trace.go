// Package trace writes records of a run as CSV lines, off the caller's goroutine.
package trace

import (
	"encoding/csv"
	"io"
	"log"
	"time"
)

type StructEncoder interface {
	GetHeaders(s interface{}) []string
	GetValues(s interface{}) []string
}

type CSVStructLogger struct {
	*csv.Writer
	consumerChan chan []string
	done         chan struct{}
	header       bool
}

// NewCSVStructLogger starts a logger writing to writer. Call Close to flush it.
func NewCSVStructLogger(writer io.Writer) *CSVStructLogger {
	res := &CSVStructLogger{
		Writer:       csv.NewWriter(writer),
		consumerChan: make(chan []string, 30),
		done:         make(chan struct{}),
	}
	go func() {
		defer close(res.done)
		defer res.Flush()
		for data := range res.consumerChan {
			if err := res.Write(data); err != nil {
				log.Println("trace: could not write record:", err)
			}
		}
	}()
	return res
}

/*
	Log queues one record. The first record also writes a header line built
	from its encoder. Every line ends with the time it was logged.
	Log must not be called concurrently with itself or with Close.
*/
func (l *CSVStructLogger) Log(s interface{}, encoder StructEncoder) {
	if !l.header {
		l.header = true
		l.consumerChan <- append(encoder.GetHeaders(s), "Time")
	}
	l.consumerChan <- append(encoder.GetValues(s), time.Now().Format(time.StampMilli))
}

// Close flushes every queued record and returns the first write error, if any.
func (l *CSVStructLogger) Close() error {
	close(l.consumerChan)
	<-l.done
	return l.Error()
}
