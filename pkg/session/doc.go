/*
Package session orchestrates concurrent access to workflow checkpoints.

It pairs an in-process per-session mutex with an optional distributed
locker so that Resume calls on the same session are serialized even across
replicas, while the actual persistence is delegated to a ports.StateStore.
*/
package session
