package utils

import "github.com/google/uuid"

// NewTableToken mints the opaque token embedded in a table's QR code.
// Tokens are unguessable and carry no structure; everything about the
// table is looked up server-side.
func NewTableToken() string {
	return uuid.NewString()
}
