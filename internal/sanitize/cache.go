package sanitize

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lukechampine.com/blake3"

	"github.com/alnah/go-markup2html/internal/fileutil"
	"github.com/alnah/go-markup2html/internal/yamlutil"
)

// cacheVersion is bumped whenever the serialized Policy layout changes, so
// definitions written by older builds are never read back.
const cacheVersion = "v1"

// DefinitionCache persists serialized policies in a shared directory. The
// directory is provisioned externally; the cache only ever creates or
// replaces its own sanitizer-*.yaml files inside it.
type DefinitionCache struct {
	dir string
}

// OpenCache checks that dir exists and is writable.
func OpenCache(dir string) (*DefinitionCache, error) {
	if err := fileutil.CheckWritableDir(dir); err != nil {
		return nil, fmt.Errorf("%w: cache directory: %v", ErrConfiguration, err)
	}
	return &DefinitionCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DefinitionCache) Dir() string {
	return c.dir
}

// Serialize returns the canonical serialized form of p and its cache key.
func Serialize(p Policy) (key string, data []byte, err error) {
	data, err = yamlutil.Encode(p)
	if err != nil {
		return "", nil, fmt.Errorf("serializing policy: %w", err)
	}
	sum := blake3.Sum256(data)
	return cacheVersion + "-" + hex.EncodeToString(sum[:]), data, nil
}

// Path returns the file that holds the definition for key.
func (c *DefinitionCache) Path(key string) string {
	return filepath.Join(c.dir, "sanitizer-"+key+".yaml")
}

// Load reads the definition stored under key. A file whose content no longer
// hashes to key is reported as a miss.
func (c *DefinitionCache) Load(key string) (Policy, error) {
	data, err := os.ReadFile(c.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Policy{}, ErrCacheMiss
		}
		return Policy{}, fmt.Errorf("reading cached definition: %w", err)
	}

	var p Policy
	if err := yamlutil.DecodeStrict(data, &p); err != nil {
		return Policy{}, fmt.Errorf("%w: %v", ErrCacheMiss, err)
	}

	gotKey, canonical, err := Serialize(p)
	if err != nil {
		return Policy{}, err
	}
	if gotKey != key || !bytes.Equal(canonical, data) {
		return Policy{}, fmt.Errorf("%w: stale entry %s", ErrCacheMiss, filepath.Base(c.Path(key)))
	}

	return p, nil
}

// Store writes data under key. The write goes through a temp file and a
// rename, so concurrent writers of the same key leave one complete file.
func (c *DefinitionCache) Store(key string, data []byte) error {
	tmp, err := os.CreateTemp(c.dir, ".sanitizer-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating cache entry: %v", ErrConfiguration, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: writing cache entry: %v", ErrConfiguration, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: closing cache entry: %v", ErrConfiguration, err)
	}

	if err := os.Rename(tmpPath, c.Path(key)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: publishing cache entry: %v", ErrConfiguration, err)
	}
	return nil
}
