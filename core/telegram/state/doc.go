// Package state provides the per-user FSM/session manager for the quoting
// conversation. Sessions are held in process memory only and are lost on
// restart; within one user at most one update is processed at a time, so
// read-then-write session updates do not interleave.
package state
