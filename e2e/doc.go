// Package e2e holds browser-driven tests that exercise the server the way a
// visitor does: typing into the page and pressing Enter.
//
// The tests drive a headless Chrome through go-rod and are skipped when no
// browser binary is found or when -short is set.
package e2e
