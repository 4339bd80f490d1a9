// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package afl implements Atomic Fast Locks: a family of user-space
// synchronization primitives for Linux built directly on the kernel futex
// syscall and sync/atomic, bypassing sync.Mutex.
//
// The design goal is a minimal uncontended fast path: no syscalls, no
// indirection, just a single compare-and-swap on one cache-line-aligned
// word. Contended callers fall back to the kernel's futex wait/wake
// facility instead of busy-waiting (except Spinlock, which never blocks).
//
// Six primitives are provided:
//
//   - Spinlock: pure user-space busy-wait lock, with an owner-aware variant
//     that detects self-deadlock and non-owner unlock.
//   - Mutex: anonymous (unowned) blocking mutex.
//   - OwnerMutex: blocking mutex that records the owning goroutine's OS
//     thread and detects self-deadlock / non-owner unlock.
//   - PIMutex: blocking mutex that delegates to the kernel's priority
//     inheritance futex operations.
//   - RecursiveMutex: owner-tracked mutex that permits the current owner to
//     re-acquire, with balanced release required.
//   - Once: run-exactly-once coordinator.
//
// All types are zero-initializable and ready to use as their zero value,
// except RecursiveMutex, which needs an explicit Init call (documented on
// the type).
//
// Owner-tracked primitives (Spinlock's OwnerLock/OwnerUnlock, OwnerMutex,
// RecursiveMutex, PIMutex) identify
// the owner by the underlying OS thread, not the goroutine. Since the Go
// scheduler may migrate a goroutine across OS threads at any function
// call, a goroutine holding one of these locks must pin itself with
// runtime.LockOSThread for the duration it holds the lock, or otherwise
// guarantee it will not migrate mid-hold. This is a caller responsibility;
// the library cannot detect a violation.
//
// A compatibility façade that re-aliases these types behind the names of
// another locking package, and any benchmark harness comparing this
// package against the platform default, are collaborators outside the
// scope of this package.
package afl
