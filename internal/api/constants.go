package api

// Cache-Control header values.
const (
	// Uploaded blobs never change under the same storage ID.
	CacheImmutable = "public, max-age=31536000, immutable"
	CacheNoStore   = "no-cache"
)

// Rate limiter bursts for unauthenticated writes.
const (
	authAttemptsPerMinute = 10
)
