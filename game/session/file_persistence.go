package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/gobblet/game/service"
)

const sessionFileExt = ".json"

// FilePersistence stores each session as an indented JSON file named
// "<id>.json" inside one directory. Writes go through a temp file and a
// rename so a crash never leaves a half-written session behind.
type FilePersistence struct {
	dir   string
	codec sessionCodec
}

// NewFilePersistence creates dir if needed and returns a store rooted there
func NewFilePersistence(dir string, configManager service.ConfigManager) (*FilePersistence, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return &FilePersistence{dir: dir, codec: sessionCodec{configManager: configManager}}, nil
}

func (fp *FilePersistence) path(id string) string {
	return filepath.Join(fp.dir, id+sessionFileExt)
}

// Save writes the session file
func (fp *FilePersistence) Save(session *service.Session) error {
	data, err := fp.codec.encode(session, true)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fp.dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fp.path(session.ID)); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load reads and rebuilds a session
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	data, err := os.ReadFile(fp.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	return fp.codec.decode(data)
}

// Delete removes the session file
func (fp *FilePersistence) Delete(id string) error {
	err := os.Remove(fp.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// ListAll returns the IDs of all session files
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != sessionFileExt {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, sessionFileExt))
	}
	return ids, nil
}

// Exists reports whether a session file is present
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.path(id))
	return err == nil
}
