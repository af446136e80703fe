// Package collection keeps a view's local copy of one remote collection in
// sync with the store.
//
// # Overview
//
// Every Navigator screen (goals, skills, courses, mentors, credentials) is a
// list over one store collection. A Controller owns that list: it loads it,
// writes changes through the store.Client and reloads afterwards so the local
// copy always settles on what the store holds. There is no optimistic
// patching; a write is visible only after the reload that follows it.
//
// # State
//
// State mirrors the last successful load:
//
//   - Items: the rows, decoded into the collection's record type
//   - Loading: a load is in flight
//   - LastError: the most recent load or write failure, nil after a good load
//   - ConsecutiveFailures: failed loads since the last success
//
// A load either replaces Items entirely or leaves them alone and records the
// error. Snapshot returns a defensive copy, so callers can hold on to it while
// the controller keeps changing.
//
// # Ordering
//
// Loads are numbered. A load captures its number and the current owner when it
// starts and only applies its result if no later load started in the meantime
// and the owner has not changed:
//
//	Load #1 (user A) ──────────────────────────────┐ result dropped (ErrSuperseded)
//	SetOwner(B), Load #2 (user B) ──────┐           │
//	                                    └─ applied  │
//
// This is what makes reloading every controller on a session change safe
// without cancellation.
//
// Mutations are serialized per controller. A second Create/Update/Delete while
// one is in flight returns ErrBusy; views also check Busy to disable their
// submit controls.
//
// # Errors
//
//   - *ValidationError: returned before any store call (Create runs the
//     record's Validate method first)
//   - *store.StoreError and *store.NotFoundError: returned by the store,
//     logged, and recorded in State.LastError
//   - ErrSignedOut, ErrReadOnly, ErrBusy, ErrSuperseded: sentinels
//
// Nothing is retried. The user retries by reloading or resubmitting.
//
// # Filtering
//
// DeriveView is the pure search/category filter views run on every keystroke.
// It never touches the controller; it works on whatever slice it is given.
package collection
