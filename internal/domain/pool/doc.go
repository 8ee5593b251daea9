// Package pool pre-provisions hidden surfaces so tab creation can skip
// surface construction latency. The pool hands out idle surfaces LIFO
// and refills itself in the background after each claim.
package pool
