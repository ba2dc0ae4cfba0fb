// Package main provides the CLI entrypoint for bellring.
package main

func main() {
	Execute()
}
