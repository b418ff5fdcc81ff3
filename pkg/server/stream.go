package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/fct/pkg/core/ifs"
	"github.com/matzehuels/fct/pkg/errors"
)

const (
	// DefaultBatch is the number of steps per websocket message.
	DefaultBatch = 256
	maxBatch     = 4096

	writeTimeout = 10 * time.Second
)

// StreamMessage is one websocket frame of GET /v1/stream/{kind}. Frames
// carry consecutive steps; the last frame has Done set and no steps.
type StreamMessage struct {
	Kind  string     `json:"kind"`
	Seed  uint64     `json:"seed"`
	Index int        `json:"index"`
	Steps []ifs.Step `json:"steps,omitempty"`
	Done  bool       `json:"done,omitempty"`
	Total int        `json:"total"`
}

// handleStream validates the request before upgrading so bad parameters get
// a regular JSON error, then streams the lazy sequence in batches. Points
// are produced only as fast as the client reads them.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	count, err := queryInt(q, "count")
	if err != nil {
		writeError(w, r, err)
		return
	}
	seed, err := querySeed(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	batch, err := queryInt(q, "batch")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if batch == 0 {
		batch = DefaultBatch
	}
	if err := errors.ValidateIntRange("batch", batch, 1, maxBatch); err != nil {
		writeError(w, r, err)
		return
	}

	opts := s.options(chi.URLParam(r, "kind"), count, seed)
	seq, err := s.runner.Sequence(opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(r.Context())
	msg := StreamMessage{Kind: opts.Kind, Seed: opts.Seed, Total: seq.Len()}
	buf := make([]ifs.Step, 0, batch)

	flush := func() error {
		msg.Steps = buf
		if err := write(ctx, conn, msg); err != nil {
			return err
		}
		msg.Index += len(buf)
		buf = buf[:0]
		return nil
	}

	for step := range seq.All() {
		buf = append(buf, step)
		if len(buf) == batch {
			if err := flush(); err != nil {
				s.logger.Debug("stream aborted", "id", RequestIDFrom(r.Context()), "error", err)
				return
			}
		}
	}
	if len(buf) > 0 {
		if err := flush(); err != nil {
			return
		}
	}

	msg.Steps, msg.Done = nil, true
	if err := write(ctx, conn, msg); err != nil {
		return
	}
	conn.Close(websocket.StatusNormalClosure, "done")
}

func write(ctx context.Context, conn *websocket.Conn, v any) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
