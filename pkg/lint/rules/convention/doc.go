// Package convention provides lint rules for SQL conventions.
//
// Rules in this package:
//   - CV01: Consistent not-equal operator (!= or <>)
package convention
