// Package token defines the tags lexers attach to scanned text.
// Invariants:
//   - Token.Text is exactly the text covered by Token.Span.
//   - Tags form an open string set consumed by the styling layer as
//     CSS-class-like keys; lexers only ever emit the tags declared here.
//   - The empty tag is a real tag and means "no special styling".
package token
