// Package monitor reacts to asset changes.
//
// Change notifications flow from a [Source] — something that can tell
// subscribers an asset was added, modified, or removed — to a [Monitor],
// a small state machine that resolves the changed asset through a
// repository and hands the full model to a single callback. [Bus] is the
// in-memory Source used by tests and composed into [Watcher], the
// filesystem-backed Source that turns fsnotify events on a definition
// directory into asset events.
//
// # Lifecycle
//
// A Monitor is either idle or monitoring. [Monitor.Start] registers the
// callback with the source and enters the monitoring state; calling it
// again replaces the callback rather than stacking a second
// subscription, so a monitor never delivers duplicate notifications.
// [Monitor.Stop] withdraws the registration and is safe to call any
// number of times.
//
// Asset removals are observed but deliberately not forwarded to the
// callback: whether stale artifacts should be deleted is a policy
// decision that belongs to the consumer, not the monitor.
//
// # Delivery
//
// Sources deliver events one at a time. Handlers run on the delivering
// goroutine and must not block; anything slow belongs on the far side of
// a channel.
package monitor
