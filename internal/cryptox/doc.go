// Package cryptox implements password hashing for the credential store.
//
// # Schemes
//
// Three schemes are available:
//
//   - sha256: unsalted SHA-256 of the UTF-8 password, base64 encoded. This is
//     the format of existing journal databases and the default.
//   - argon2id: salted Argon2id, encoded as
//     $argon2id$v=19$m=<KiB>,t=<iterations>,p=<threads>$<salt>$<key>.
//   - bcrypt: the standard $2a$/$2b$ modular crypt format.
//
// # Verification
//
// Verify inspects the stored hash and dispatches on its format, so changing
// the configured scheme never invalidates credentials written under another
// one. All comparisons are constant time.
//
// Typical usage:
//
//	h, _ := cryptox.NewHasher(cryptox.SchemeArgon2id)
//	encoded, _ := h.Hash("secret")
//	ok := cryptox.Verify("secret", encoded)
package cryptox
