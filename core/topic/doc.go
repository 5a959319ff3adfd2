// Package topic provides named, typed publish/subscribe channels with
// synchronous callback delivery.
//
// Topics are created inside a Domain, which enforces name uniqueness.
// Publish runs every registered callback on the caller's goroutine before
// returning, so a chain of topics forms one synchronous call chain.
package topic
