package cfi

import "strings"

// LooksJIT applies the mapping-name heuristics commonly used to
// recognize anonymous executable mappings produced by a managed
// runtime (JVM, V8, .NET, etc.) rather than a file-backed object. path
// is the mapping's pathname field from /proc/<pid>/maps, which for
// such runtimes is typically empty, "//anon", or a synthetic name like
// "/memfd:jit" or "[anon:<runtime>]".
func LooksJIT(path string) bool {
	if path == "" {
		return true
	}
	lower := strings.ToLower(path)
	switch {
	case strings.HasPrefix(path, "//anon"):
		return true
	case strings.HasPrefix(path, "[anon"):
		return true
	case strings.Contains(lower, "jit"):
		return true
	case strings.HasPrefix(path, "/memfd:"):
		return true
	default:
		return false
	}
}
