// Package ambiguous provides lint rules for detecting ambiguous SQL constructs.
//
// Rules in this package:
//   - AM01: DISTINCT used with GROUP BY (redundant)
//   - AM04: Column count mismatch in set operations
//   - AM09: ORDER BY/LIMIT with set operations
package ambiguous
