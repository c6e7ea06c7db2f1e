// Package playlist implements the queue and download-readiness engine that
// feeds a player.
//
// A Playlist is an ordered FIFO of entries. Each Entry owns its own download
// state machine: requesting readiness registers a waiter and, when no
// download is in flight, starts one; concurrent callers share the single
// in-flight download. The head of the queue is prefetched as soon as it is
// known, so the next item downloads while the current one plays.
//
// Downloads are cache-aware. Generically named sources are matched against
// the download directory by base name and verified with a remote size probe;
// named providers are matched by expected file name. Fresh generic downloads
// get a short content-hash suffix spliced into their name so colliding base
// names stay distinct.
//
// Failures never revert a ready entry and never abort on behalf of an
// abandoned waiter: a failed download resolves all current waiters with the
// error and leaves the entry eligible for a fresh attempt.
package playlist
