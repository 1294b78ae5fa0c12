package mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gitpan/App-dropboxapi/internal/api"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
)

// FakeStore is an in-memory api.Store for tests. Paths are case-insensitive
// like the real store; the canonical casing is whatever casing a node was
// created with. Every call is appended to Calls for assertion, and Fail
// injects errors keyed by "op path".
type FakeStore struct {
	mu       sync.Mutex
	nodes    map[string]*types.Metadata
	content  map[string][]byte
	sessions map[string]*bytes.Buffer
	nextID   int

	Calls []string
	Fail  map[string]error
}

var _ api.Store = (*FakeStore)(nil)

// NewFakeStore creates an empty store containing only the root folder
func NewFakeStore() *FakeStore {
	s := &FakeStore{
		nodes:    make(map[string]*types.Metadata),
		content:  make(map[string][]byte),
		sessions: make(map[string]*bytes.Buffer),
		Fail:     make(map[string]error),
	}
	s.nodes["/"] = &types.Metadata{Path: "/", IsDir: true}
	return s
}

// AddFile seeds a file, creating missing parent folders
func (s *FakeStore) AddFile(p string, data []byte, modified time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addParents(p)
	s.nodes[strings.ToLower(p)] = &types.Metadata{
		Path:     p,
		Bytes:    int64(len(data)),
		Modified: modified.Format(types.TimeFormat),
		Rev:      fmt.Sprintf("rev-%d", len(s.Calls)),
	}
	s.content[strings.ToLower(p)] = append([]byte(nil), data...)
}

// AddDir seeds a folder, creating missing parents
func (s *FakeStore) AddDir(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addParents(p)
	s.nodes[strings.ToLower(p)] = &types.Metadata{Path: p, IsDir: true}
}

// MarkDeleted flags an existing node as soft-deleted
func (s *FakeStore) MarkDeleted(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[strings.ToLower(p)]; ok {
		n.IsDeleted = true
	}
}

// Content returns the stored bytes for a path
func (s *FakeStore) Content(p string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.content[strings.ToLower(p)]
	return data, ok
}

// Has reports whether a path exists and is not soft-deleted
func (s *FakeStore) Has(p string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[strings.ToLower(p)]
	return ok && !n.IsDeleted
}

func (s *FakeStore) addParents(p string) {
	for dir := path.Dir(p); dir != "/" && dir != "."; dir = path.Dir(dir) {
		if _, ok := s.nodes[strings.ToLower(dir)]; !ok {
			s.nodes[strings.ToLower(dir)] = &types.Metadata{Path: dir, IsDir: true}
		}
	}
}

func (s *FakeStore) record(op, p string) error {
	s.Calls = append(s.Calls, strings.TrimSpace(op+" "+p))
	if err, ok := s.Fail[strings.TrimSpace(op+" "+p)]; ok {
		return err
	}
	return nil
}

func notFound(p string) error {
	return utils.NewAppError(utils.NewCLIError(utils.ErrCodeFileNotFound,
		"Path not found: "+p).WithHTTPStatus(404).Build())
}

func (s *FakeStore) Metadata(ctx context.Context, p string) (*types.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("metadata", p); err != nil {
		return nil, err
	}

	node, ok := s.nodes[strings.ToLower(p)]
	if !ok {
		return nil, notFound(p)
	}

	meta := *node
	meta.Contents = nil
	if meta.IsDir {
		prefix := strings.ToLower(meta.Path)
		if prefix != "/" {
			prefix += "/"
		}
		for key, child := range s.nodes {
			if key == strings.ToLower(meta.Path) {
				continue
			}
			if !strings.HasPrefix(key, prefix) || strings.Contains(key[len(prefix):], "/") {
				continue
			}
			c := *child
			c.Contents = nil
			meta.Contents = append(meta.Contents, c)
		}
	}
	return &meta, nil
}

func (s *FakeStore) Copy(ctx context.Context, src, dst string) (*types.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("copy", src); err != nil {
		return nil, err
	}
	node, ok := s.nodes[strings.ToLower(src)]
	if !ok || node.IsDeleted {
		return nil, notFound(src)
	}
	s.addParents(dst)
	copied := *node
	copied.Path = dst
	s.nodes[strings.ToLower(dst)] = &copied
	if data, ok := s.content[strings.ToLower(src)]; ok {
		s.content[strings.ToLower(dst)] = append([]byte(nil), data...)
	}
	return &copied, nil
}

func (s *FakeStore) Move(ctx context.Context, src, dst string) (*types.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("move", src); err != nil {
		return nil, err
	}
	node, ok := s.nodes[strings.ToLower(src)]
	if !ok || node.IsDeleted {
		return nil, notFound(src)
	}
	s.addParents(dst)
	moved := *node
	moved.Path = dst
	s.nodes[strings.ToLower(dst)] = &moved
	if data, ok := s.content[strings.ToLower(src)]; ok {
		s.content[strings.ToLower(dst)] = data
	}
	delete(s.nodes, strings.ToLower(src))
	delete(s.content, strings.ToLower(src))
	meta := moved
	return &meta, nil
}

func (s *FakeStore) CreateFolder(ctx context.Context, p string) (*types.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("create_folder", p); err != nil {
		return nil, err
	}
	s.addParents(p)
	node := &types.Metadata{Path: p, IsDir: true}
	s.nodes[strings.ToLower(p)] = node
	meta := *node
	return &meta, nil
}

// Delete removes a node and, like the real store, everything under it
func (s *FakeStore) Delete(ctx context.Context, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("delete", p); err != nil {
		return err
	}
	key := strings.ToLower(p)
	if _, ok := s.nodes[key]; !ok {
		return notFound(p)
	}
	delete(s.nodes, key)
	delete(s.content, key)
	for k := range s.nodes {
		if strings.HasPrefix(k, key+"/") {
			delete(s.nodes, k)
			delete(s.content, k)
		}
	}
	return nil
}

func (s *FakeStore) GetFile(ctx context.Context, p string, w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("get_file", p); err != nil {
		return err
	}
	data, ok := s.content[strings.ToLower(p)]
	if !ok {
		return notFound(p)
	}
	_, err := w.Write(data)
	return err
}

func (s *FakeStore) PutFile(ctx context.Context, p string, r io.Reader, overwrite bool) (*types.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("put_file", p); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.addParents(p)
	node := &types.Metadata{
		Path:     p,
		Bytes:    int64(len(data)),
		Modified: time.Now().UTC().Format(types.TimeFormat),
	}
	s.nodes[strings.ToLower(p)] = node
	s.content[strings.ToLower(p)] = data
	meta := *node
	return &meta, nil
}

func (s *FakeStore) ChunkedUpload(ctx context.Context, chunk io.Reader, session *types.ChunkedSession) (*types.ChunkedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("chunked_upload", session.UploadID); err != nil {
		return nil, err
	}
	id := session.UploadID
	if id == "" {
		s.nextID++
		id = fmt.Sprintf("upload-%d", s.nextID)
		s.sessions[id] = &bytes.Buffer{}
	}
	buf, ok := s.sessions[id]
	if !ok {
		return nil, notFound(id)
	}
	if _, err := io.Copy(buf, chunk); err != nil {
		return nil, err
	}
	return &types.ChunkedSession{UploadID: id, Offset: int64(buf.Len())}, nil
}

func (s *FakeStore) CommitChunkedUpload(ctx context.Context, p string, session *types.ChunkedSession, overwrite bool) (*types.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("commit_chunked_upload", p); err != nil {
		return nil, err
	}
	buf, ok := s.sessions[session.UploadID]
	if !ok {
		return nil, notFound(session.UploadID)
	}
	delete(s.sessions, session.UploadID)
	s.addParents(p)
	node := &types.Metadata{
		Path:     p,
		Bytes:    int64(buf.Len()),
		Modified: time.Now().UTC().Format(types.TimeFormat),
	}
	s.nodes[strings.ToLower(p)] = node
	s.content[strings.ToLower(p)] = buf.Bytes()
	meta := *node
	return &meta, nil
}

func (s *FakeStore) AccountInfo(ctx context.Context) (*types.AccountInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("account_info", ""); err != nil {
		return nil, err
	}
	return &types.AccountInfo{
		UID:         12345,
		DisplayName: "Fake User",
		QuotaInfo:   types.QuotaInfo{Quota: 2 << 30, Normal: 1 << 20},
	}, nil
}
