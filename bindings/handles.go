package main

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nickyhof/RecordDB"
	"github.com/nickyhof/RecordDB/config"
	"github.com/nickyhof/RecordDB/db"
)

// Handle is an open database. Calls on one handle are serialized.
type Handle struct {
	mu       sync.Mutex
	database *db.AnyDatabase
}

var errInvalidHandle = errors.New("invalid handle")

// registry maps the integer handles given out to C callers.
type registry struct {
	mu      sync.Mutex
	handles map[int]*Handle
	next    int
}

func newRegistry() *registry {
	return &registry{handles: make(map[int]*Handle), next: 1}
}

// open loads configuration from cfgFile (or ./recorddb.yaml and the
// environment when empty) and overrides the key kind when one is given.
func (r *registry) open(kind, cfgFile string) (int, error) {
	cfg, err := config.Load(cfgFile, nil)
	if err != nil {
		return 0, err
	}
	if kind != "" {
		cfg.Key = kind
	}

	instance, err := RecordDB.Open(cfg, slog.Default())
	if err != nil {
		return 0, err
	}
	database, err := instance.Database()
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	handle := r.next
	r.next++
	r.handles[handle] = &Handle{database: database}
	return handle, nil
}

func (r *registry) get(handle int) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[handle]
	if !ok {
		return nil, fmt.Errorf("%w: %d", errInvalidHandle, handle)
	}
	return h, nil
}

func (r *registry) close(handle int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, handle)
}

// execute runs one command and returns the JSON response line the server
// would send, without the trailing newline.
func (r *registry) execute(handle int, text string) []byte {
	h, err := r.get(handle)
	if err != nil {
		return encode(db.ErrorResponse(err))
	}

	h.mu.Lock()
	result, err := h.database.ExecuteCommand(text)
	h.mu.Unlock()

	return encode(db.NewResponse(result, err))
}

func encode(resp db.Response) []byte {
	data, err := db.EncodeResponse(resp)
	if err != nil {
		data, _ = db.EncodeResponse(db.ErrorResponse(err))
	}
	return data[:len(data)-1]
}
