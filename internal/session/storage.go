// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Storage is the durable record behind the store. *keychain.Manager implements it.
type Storage interface {
	SaveSession(data []byte) error
	// LoadSession returns nil data and a nil error when no record exists.
	LoadSession() ([]byte, error)
	ClearSession() error
}

// save writes snap to storage. An empty snapshot removes the record.
func (s *Store) save(snap Snapshot) error {
	if s.storage == nil {
		return nil
	}
	if snap.IsZero() {
		s.log.Debug("clearing persisted session")
		return s.storage.ClearSession()
	}

	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.log.Debug("persisting session",
		zap.String("state", snap.State().String()),
		zap.Int("bytes", len(b)),
	)
	return s.storage.SaveSession(b)
}

// read loads the persisted snapshot. Missing state yields the zero value.
func (s *Store) read() (Snapshot, error) {
	var snap Snapshot
	if s.storage == nil {
		return snap, nil
	}
	data, err := s.storage.LoadSession()
	if err != nil {
		return snap, err
	}
	if len(data) == 0 {
		s.log.Debug("no persisted session")
		return snap, nil
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode persisted session: %w", err)
	}
	return snap, nil
}
