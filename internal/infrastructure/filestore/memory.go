package filestore

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/alchemorsel/cookbook/internal/ports/outbound"
	apperrors "github.com/alchemorsel/cookbook/pkg/errors"
)

// MemoryStore is an in-memory outbound.FileStore emulator, grounded on
// the teacher's mutex-guarded map idiom for a repository that needs no
// real backend (internal/infrastructure/persistence/memory/cache_repository.go).
// Used in tests and local development in place of S3Store.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]storedObject
}

type storedObject struct {
	data     []byte
	mimeType string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]storedObject)}
}

func (m *MemoryStore) GetOrCreateFolder(_ context.Context, identity, name string) (outbound.FolderRef, error) {
	return outbound.FolderRef{ID: path.Join(identity, name)}, nil
}

func (m *MemoryStore) Put(_ context.Context, identity string, folder outbound.FolderRef, filename string, data []byte, mimeType string) (outbound.FileRef, error) {
	key := m.objectKey(identity, folder, filename)
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.objects[key] = storedObject{data: cp, mimeType: mimeType}
	return outbound.FileRef{ID: key, Filename: filename}, nil
}

func (m *MemoryStore) List(_ context.Context, identity string, folder outbound.FolderRef, pageSize int, pageToken string) (outbound.FileList, error) {
	prefix := m.folderPrefix(identity, folder)

	m.mu.RLock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	m.mu.RUnlock()
	sort.Strings(keys)

	start := 0
	if pageToken != "" {
		for i, k := range keys {
			if k == pageToken {
				start = i + 1
				break
			}
		}
	}

	end := len(keys)
	if pageSize > 0 && start+pageSize < end {
		end = start + pageSize
	}

	list := outbound.FileList{}
	for _, k := range keys[start:end] {
		list.Entries = append(list.Entries, outbound.FileRef{ID: k, Filename: path.Base(k)})
	}
	if end < len(keys) {
		list.NextPageToken = keys[end-1]
	}
	return list, nil
}

func (m *MemoryStore) GetBytes(_ context.Context, _ string, file outbound.FileRef) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[file.ID]
	if !ok {
		return nil, apperrors.NewStorageUnavailableError("get", nil)
	}
	return obj.data, nil
}

func (m *MemoryStore) GetText(ctx context.Context, identity string, file outbound.FileRef) (string, error) {
	data, err := m.GetBytes(ctx, identity, file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (m *MemoryStore) objectKey(identity string, folder outbound.FolderRef, filename string) string {
	base := folder.ID
	if base == "" {
		base = identity
	}
	return path.Join(base, filename)
}

func (m *MemoryStore) folderPrefix(identity string, folder outbound.FolderRef) string {
	base := folder.ID
	if base == "" {
		base = identity
	}
	return base + "/"
}

var _ outbound.FileStore = (*MemoryStore)(nil)
