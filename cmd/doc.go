// Package cmd wires the avail CLI commands together.
package cmd
