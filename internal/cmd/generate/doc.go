// Package generaterun wires the generator, filter, pacer, encoder and sink
// into one run. It backs the `nexmark generate` command.
package generaterun
