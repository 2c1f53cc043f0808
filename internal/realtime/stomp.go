package realtime

import (
	"bytes"
	"fmt"
	"strings"
)

// STOMP frame commands used by the /ws-ais endpoint.
const (
	cmdConnect     = "CONNECT"
	cmdConnected   = "CONNECTED"
	cmdSubscribe   = "SUBSCRIBE"
	cmdUnsubscribe = "UNSUBSCRIBE"
	cmdDisconnect  = "DISCONNECT"
	cmdMessage     = "MESSAGE"
	cmdError       = "ERROR"
)

// frame is one STOMP 1.2 frame: a command, headers and an optional body
// terminated by a NUL octet on the wire.
type frame struct {
	Command string
	Headers map[string]string
	Body    []byte
}

var headerEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\r", `\r`,
	"\n", `\n`,
	":", `\c`,
)

var headerUnescaper = strings.NewReplacer(
	`\r`, "\r",
	`\n`, "\n",
	`\c`, ":",
	`\\`, `\`,
)

// escapesHeaders reports whether the command's headers use STOMP 1.2 escape
// sequences. CONNECT/CONNECTED are exempt for 1.0 compatibility, per spec.
func escapesHeaders(command string) bool {
	return command != cmdConnect && command != cmdConnected
}

// marshalFrame encodes a frame for the wire.
func marshalFrame(f frame) []byte {
	var buf bytes.Buffer
	buf.WriteString(f.Command)
	buf.WriteByte('\n')
	for k, v := range f.Headers {
		if escapesHeaders(f.Command) {
			k = headerEscaper.Replace(k)
			v = headerEscaper.Replace(v)
		}
		buf.WriteString(k)
		buf.WriteByte(':')
		buf.WriteString(v)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(f.Body)
	buf.WriteByte(0)
	return buf.Bytes()
}

// errHeartbeat marks an EOL-only heartbeat, which carries no frame.
var errHeartbeat = fmt.Errorf("heartbeat")

// parseFrame decodes one frame from a websocket message.
func parseFrame(data []byte) (frame, error) {
	// Heartbeats are a bare EOL.
	trimmed := bytes.TrimLeft(data, "\r\n")
	if len(trimmed) == 0 {
		return frame{}, errHeartbeat
	}

	head, body, found := bytes.Cut(trimmed, []byte("\n\n"))
	if !found {
		head, body, found = bytes.Cut(trimmed, []byte("\r\n\r\n"))
	}
	if !found {
		return frame{}, fmt.Errorf("malformed frame: missing header terminator")
	}

	lines := strings.Split(strings.ReplaceAll(string(head), "\r\n", "\n"), "\n")
	f := frame{
		Command: lines[0],
		Headers: make(map[string]string, len(lines)-1),
	}
	if f.Command == "" {
		return frame{}, fmt.Errorf("malformed frame: empty command")
	}

	for _, line := range lines[1:] {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return frame{}, fmt.Errorf("malformed header line %q", line)
		}
		if escapesHeaders(f.Command) {
			key = headerUnescaper.Replace(key)
			value = headerUnescaper.Replace(value)
		}
		// First occurrence wins, per STOMP spec.
		if _, exists := f.Headers[key]; !exists {
			f.Headers[key] = value
		}
	}

	f.Body = bytes.TrimSuffix(body, []byte{0})
	return f, nil
}
