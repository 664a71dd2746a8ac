// Package gofront is the Go frontend: it compiles a script snippet with
// go/parser and go/types.
//
// A snippet is a sequence of statements. It is wrapped into
//
//	package main
//
//	func main() {
//	<snippet>
//	}
//
// and the configured default imports are added to the parsed file, so they
// are in scope without appearing in the text. Every position reported back
// is in snippet coordinates; positions inside the wrapper clamp to the
// snippet bounds.
package gofront
