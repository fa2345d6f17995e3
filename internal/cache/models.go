package cache

// QueryOpts filters the cached story list the same way the server's
// /api/stories endpoint does, so the offline view behaves like the
// online one.
type QueryOpts struct {
	Category string // "" or "All" means every category
	Search   string // case-insensitive title substring
	Limit    int
	Offset   int
}
