// Package logs reads curator's log file for the CLI.
//
// Last returns the trailing lines of a file with bounded memory and the byte
// offset reached, and Follow streams lines appended after an offset until
// the context ends. A missing file reads as empty so `curator logs` works
// before the first command has logged anything.
package logs
