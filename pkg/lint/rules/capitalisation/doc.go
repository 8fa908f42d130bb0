// Package capitalisation provides lint rules for the case of SQL keywords.
//
// Rules in this package:
//   - CP01: Keywords use a consistent case
package capitalisation
