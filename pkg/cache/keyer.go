package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives cache keys.
type Keyer interface {
	// BoreholeKey addresses a borehole fetched from a named source.
	BoreholeKey(source, id string) string
	// ArtifactKey addresses a whole rendered output.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
	// PageKey addresses one rendered page.
	PageKey(inputHash string, page int, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the rendering settings that change output bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style"` // hash of the resolved layout config
	Legend string  `json:"legend,omitempty"`
	DPI    float64 `json:"dpi,omitempty"`
}

// DefaultKeyer builds keys of the form kind:sha256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) BoreholeKey(source, id string) string {
	return fmt.Sprintf("borehole:%s:%s", source, id)
}

func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

func (DefaultKeyer) PageKey(inputHash string, page int, opts ArtifactKeyOpts) string {
	return hashKey("page", inputHash, page, opts)
}

// hashKey is prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON returns the hex SHA-256 of the JSON encoding of v.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}
