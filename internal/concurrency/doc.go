// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker-pool primitives for parabola: a mutex+condvar FIFO task queue, a
// resizable executor of OS-thread-locked workers with stable per-worker
// engine identities, completion handles carrying result-or-error values,
// and optional CPU pinning on Linux.
package concurrency
