package feed

import (
	"bytes"
	"io"
	"net"

	"github.com/gorilla/websocket"

	"codeberg.org/voss/neuroscope/internal/errors"
)

// readChunkSize is the socket read granularity. Records are a few
// hundred bytes, so one chunk usually carries several complete lines.
const readChunkSize = 4096

// source is one live feed connection delivering raw newline-delimited
// records. ReadBatch blocks until at least one complete line is
// available; io.EOF reports an orderly end of the feed.
type source interface {
	ReadBatch() ([][]byte, error)
	Close() error
}

// socketSource reads the engine's unix stream socket. Records may span
// reads, so a partial trailing line is held back until its newline
// arrives.
type socketSource struct {
	conn    net.Conn
	buf     []byte
	pending []byte
}

func dialSocket(path string) (source, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, errors.Wrap(ErrFeedUnavailable, err)
	}

	return &socketSource{conn: conn, buf: make([]byte, readChunkSize)}, nil
}

func (s *socketSource) ReadBatch() ([][]byte, error) {
	for {
		n, err := s.conn.Read(s.buf)
		if n > 0 {
			s.pending = append(s.pending, s.buf[:n]...)
			if lines := splitLines(&s.pending); len(lines) > 0 {
				return lines, nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, errors.Wrap(ErrReadFailed, err)
		}
	}
}

func (s *socketSource) Close() error {
	return s.conn.Close()
}

// wsSource reads a remote websocket feed. Each text message holds one
// batch of newline-delimited records decoded exactly like the local
// socket stream, except that the message frame also ends a record: a
// batch needs no trailing newline, and a message holding one bare
// record is a batch of one.
type wsSource struct {
	conn    *websocket.Conn
	pending []byte
}

func dialWebsocket(url string) (source, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, errors.Wrap(ErrFeedUnavailable, err)
	}

	return &wsSource{conn: conn}, nil
}

func (s *wsSource) ReadBatch() ([][]byte, error) {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			return nil, errors.Wrap(ErrReadFailed, err)
		}

		s.pending = append(s.pending[:0], msg...)
		lines := splitLines(&s.pending)

		// The message frame closes its last record even without a
		// terminating newline.
		if tail := bytes.TrimSpace(s.pending); len(tail) > 0 {
			lines = append(lines, append([]byte(nil), tail...))
		}

		if len(lines) > 0 {
			return lines, nil
		}
	}
}

func (s *wsSource) Close() error {
	return s.conn.Close()
}

// splitLines extracts every complete line from pending, leaving any
// unterminated tail in place. Blank lines are skipped.
func splitLines(pending *[]byte) [][]byte {
	var lines [][]byte

	rest := *pending
	for {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimSpace(rest[:i])
		if len(line) > 0 {
			lines = append(lines, append([]byte(nil), line...))
		}
		rest = rest[i+1:]
	}

	*pending = append((*pending)[:0], rest...)

	return lines
}
