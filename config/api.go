package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Health and the read-only GraphQL sync-state endpoint stay public
	return []string{"/health", "/graphql", "/playground"}
}
