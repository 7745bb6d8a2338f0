// Package tradesnap maintains an in-memory position book and a realized
// profit-and-loss history for trade executions imported from multiple
// markets (A-share equities, Chinese futures, and AI-recognized screenshots
// of Hong Kong equity or foreign futures orders).
//
// The core type is the [Ledger]: it consumes batches of [Trade] records,
// applies them in chronological order, keeps every open [Position] at its
// quantity-weighted average cost, and appends a [PnLRecord] each time a
// position is reduced. Collaborators that produce Trade records live in the
// normalize, industry and vision subpackages; the cmd package assembles
// them into the tsnap command line tool.
//
// A Ledger holds state for a single session only: nothing is persisted
// across process restarts. It performs no internal locking and is not safe
// for concurrent mutation; callers that share one across goroutines must
// serialize access themselves.
package tradesnap
