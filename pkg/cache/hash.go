package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// artifactPrefix namespaces artifact keys in shared stores.
const artifactPrefix = "sankeytimeline:artifacts:"

// ArtifactKey derives the key of a rendered artifact bundle from the
// definition content and the render settings. settings must be
// JSON-serializable; its encoding is part of the key.
func ArtifactKey(definition []byte, settings any) (string, error) {
	s, err := json.Marshal(settings)
	if err != nil {
		return "", err
	}
	return artifactPrefix + Hash(append(append([]byte(Hash(definition)), ':'), s...)), nil
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
