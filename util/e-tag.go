package util

import (
	"crypto/sha1"
	"encoding/hex"
	"mime"
	"path"
)

// GenerateETag returns the hex SHA-1 of content, used as a strong ETag for embedded assets.
func GenerateETag(content []byte) string {
	hash := sha1.Sum(content)
	return hex.EncodeToString(hash[:])
}

// ContentType guesses the media type of an asset from its file extension.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
