// Package verify implements the two-pass bootstrap self-test: Pass 1 rebuilds
// the compiler's own sources with the interpreter-hosted compiler and produces
// the compiled executable; Pass 2 repeats the compilation with that executable
// and requires every generated artifact to be byte-identical to its Pass 1
// counterpart. The first failing invocation or comparison aborts the run.
package verify
