// Package store provides the keyed store-and-fetch capability used to publish
// immutable artefacts such as categorical encoding descriptors.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/xh3b4sd/tracer"
)

var notFoundError = &tracer.Error{
	Kind: "notFoundError",
	Desc: "The requested key does not exist in the store.",
}

func IsNotFound(err error) bool {
	return errors.Is(err, notFoundError)
}

// Store persists JSON encodable values under string keys.
type Store interface {
	// Put stores val under key, replacing any previous value.
	Put(key string, val interface{}) error
	// Get decodes the value stored under key into val. Missing keys fail
	// with an error satisfying IsNotFound.
	Get(key string, val interface{}) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Memory is a process local Store.
type Memory struct {
	mut sync.RWMutex
	dat map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{
		dat: map[string][]byte{},
	}
}

func (m *Memory) Put(key string, val interface{}) error {
	byt, err := json.Marshal(val)
	if err != nil {
		return tracer.Mask(err)
	}

	m.mut.Lock()
	m.dat[key] = byt
	m.mut.Unlock()

	return nil
}

func (m *Memory) Get(key string, val interface{}) error {
	m.mut.RLock()
	byt, ok := m.dat[key]
	m.mut.RUnlock()

	if !ok {
		return tracer.Mask(fmt.Errorf("%w: %s", notFoundError, key))
	}

	err := json.Unmarshal(byt, val)
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}

func (m *Memory) Delete(key string) error {
	m.mut.Lock()
	delete(m.dat, key)
	m.mut.Unlock()

	return nil
}
