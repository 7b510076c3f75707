package cache

// BoltDB bucket names
const (
	BucketOGP  = "ogp"  // blake3(url) -> OGPEntry
	BucketHTML = "html" // blake3(options + body) -> compressed html

	// Global metadata
	BucketMeta  = "meta"  // schema_version
	BucketStats = "stats" // build_count, last_build

	// Meta keys
	KeySchemaVersion = "schema_version"
	KeyBuildCount    = "build_count"
	KeyLastBuild     = "last_build"
)

// AllBuckets returns all bucket names for initialization
func AllBuckets() []string {
	return []string{
		BucketOGP,
		BucketHTML,
		BucketMeta,
		BucketStats,
	}
}
