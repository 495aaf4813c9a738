package gelf

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	gogelf "github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// Writer ships zerolog events to Graylog. It consumes zerolog's JSON lines,
// so it can sit behind zerolog.MultiLevelWriter next to the stderr output.
// Chunking and gzip are left to go-gelf's UDP writer.
type Writer struct {
	udp      *gogelf.UDPWriter
	hostname string
	service  string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Writer, error) {
	udp, err := gogelf.NewUDPWriter(addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service
	}

	return &Writer{udp: udp, hostname: hostname, service: service}, nil
}

// Write implements io.Writer. Each call carries one zerolog event and sends
// one GELF message; payloads that are not JSON go out as a bare short_message.
func (w *Writer) Write(p []byte) (int, error) {
	// Fire-and-forget
	_ = w.udp.WriteMessage(w.Message(p, time.Now()))
	return len(p), nil
}

// Message converts one zerolog line into a GELF 1.1 message.
func (w *Writer) Message(p []byte, now time.Time) *gogelf.Message {
	msg := &gogelf.Message{
		Version:  "1.1",
		Host:     w.hostname,
		TimeUnix: float64(now.UnixNano()) / 1e9,
		Level:    6,
		Extra:    map[string]interface{}{"_service": w.service},
	}

	var event map[string]any
	if err := json.Unmarshal(p, &event); err != nil {
		msg.Short = strings.TrimRight(string(p), "\n")
		return msg
	}

	msg.Short, _ = event[zerolog.MessageFieldName].(string)
	if msg.Short == "" {
		msg.Short = "-"
	}
	if lvl, ok := event[zerolog.LevelFieldName].(string); ok {
		msg.Level = syslogLevel(lvl)
	}
	for k, v := range event {
		switch k {
		case zerolog.MessageFieldName, zerolog.LevelFieldName, zerolog.TimestampFieldName:
			continue
		case "id":
			// "_id" is reserved by GELF.
			k = "field_id"
		}
		msg.Extra["_"+k] = v
	}
	return msg
}

func syslogLevel(level string) int32 {
	switch level {
	case zerolog.LevelPanicValue, zerolog.LevelFatalValue:
		return 2
	case zerolog.LevelErrorValue:
		return 3
	case zerolog.LevelWarnValue:
		return 4
	case zerolog.LevelDebugValue, zerolog.LevelTraceValue:
		return 7
	default:
		return 6
	}
}

func (w *Writer) Close() error {
	return w.udp.Close()
}
