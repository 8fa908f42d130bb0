// Package aliasing provides lint rules for SQL aliasing conventions.
//
// Rules in this package:
//   - AL01: Table aliases should use AS
//   - AL02: Column aliases should use AS
package aliasing
