// Package audiocache decides when an existing file in the download directory
// can stand in for a fresh download.
//
// Named-provider files are matched by exact expected name, falling back to a
// same-base-different-extension match. Generically named files are matched by
// comparing each candidate's name with its trailing "-suffix" segment
// stripped against the expected base name; callers then compare remote and
// local sizes before reusing. The trailing-segment strip is a heuristic
// carried over for cache compatibility: legitimately similar file names can
// collide, so it is a hint, not a guaranteed-correct cache key.
//
// Disambiguate gives generically named downloads a unique file name by
// splicing a short content hash before the extension.
package audiocache
