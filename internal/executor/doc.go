// Package executor runs external commands, either blocking or on a
// background goroutine whose completion can be polled from a render loop.
//
// A concurrently started command is never cancelled: it runs to exit
// even if nobody is watching, and the caller reaps it with Handle.Wait.
package executor
