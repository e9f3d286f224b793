package storage

import (
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestSaveStoresFileUnderNewName(t *testing.T) {
    dir := t.TempDir()
    store, err := NewProofStore(dir, "https://venue.example")
    require.NoError(t, err)

    url, err := store.Save(strings.NewReader("fake image bytes"), "transfer-receipt.PNG")
    require.NoError(t, err)

    assert.True(t, strings.HasPrefix(url, "https://venue.example/proofs/"))
    assert.True(t, strings.HasSuffix(url, ".png"))
    assert.NotContains(t, url, "transfer-receipt")

    entries, err := os.ReadDir(dir)
    require.NoError(t, err)
    require.Len(t, entries, 1)

    data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
    require.NoError(t, err)
    assert.Equal(t, "fake image bytes", string(data))
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
    store, err := NewProofStore(t.TempDir(), "")
    require.NoError(t, err)

    _, err = store.Save(strings.NewReader("#!/bin/sh"), "payload.sh")
    assert.ErrorIs(t, err, ErrUnsupportedType)

    _, err = store.Save(strings.NewReader("no extension"), "receipt")
    assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveWithoutBaseURLReturnsRelativePath(t *testing.T) {
    store, err := NewProofStore(t.TempDir(), "")
    require.NoError(t, err)

    url, err := store.Save(strings.NewReader("img"), "a.jpg")
    require.NoError(t, err)
    assert.True(t, strings.HasPrefix(url, "/proofs/"))
}
