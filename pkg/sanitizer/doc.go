// Package sanitizer normalizes class catalog input before validation and storage.
//
// All functions are idempotent: applying them twice gives the same result as
// applying them once. Invalid input is returned trimmed or empty, never as an error.
//
// Normalization includes:
//   - Text fields: collapse whitespace, trim leading/trailing spaces, drop control characters
//   - Search queries: text normalization plus a length cap
//   - Image references: http(s) URLs get a lowercase host, relative paths use forward slashes
//   - Prices: rounded to two decimal places
package sanitizer
