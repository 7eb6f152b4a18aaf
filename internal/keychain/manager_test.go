// Copyright (c) 2025 MOA
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SessionRoundTrip(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring(nil))

	data, err := m.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, data, "missing record should load as nil")

	record := []byte(`{"token":"t","isAuthenticated":false}`)
	require.NoError(t, m.SaveSession(record))

	data, err = m.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, record, data)

	require.NoError(t, m.ClearSession())
	data, err = m.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestManager_ClearMissingSession(t *testing.T) {
	m := NewManagerWithRing(keyring.NewArrayKeyring(nil))
	require.NoError(t, m.ClearSession())
	require.NoError(t, m.ClearSession())
}

func TestManager_UsesFixedKey(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	m := NewManagerWithRing(ring)
	require.NoError(t, m.SaveSession([]byte("{}")))

	item, err := ring.Get(KeySession)
	require.NoError(t, err)
	assert.Equal(t, "moa-admin-auth", item.Key)
}
