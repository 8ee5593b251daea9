// Package session owns the tab state machine.
//
// The Store holds the ordered list of open surfaces and which one is
// active; exactly one surface is visible at a time. Commands arrive
// concurrently from the HTTP layer and serialize through a single
// mutex. Visible effects go through the host binding, and every
// mutation broadcasts the full updated state to observers.
//
// Tab creation prefers a pre-provisioned idle surface from the pool,
// re-skinned to the requested content; when the pool is empty or
// disabled a surface is constructed fresh. Host binding calls precede
// the in-memory commit so session state and visible surfaces never
// diverge.
package session
