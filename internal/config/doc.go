// Package config defines the verification plan: which source collections the
// compiler is rebuilt from, where artifacts land, and how the compiler is
// invoked. Plans are written in HCL; a built-in default plan reproduces the
// conventional src/ + tests/reflected/ layout when no plan file is given.
package config
