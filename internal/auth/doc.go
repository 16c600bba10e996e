// Package auth decides whether a presented token matches the shared secret.
//
// The secret is read once at startup and wrapped in a Verifier, which is
// immutable and safe for concurrent use by every connection handler.
// Two forms are accepted:
//
//   - a plaintext secret, compared in constant time
//   - an Argon2id hash in the PHC-like form
//     $argon2id$v=19$m=<KiB>,t=<iterations>,p=<threads>$<salt>$<key>
//     (raw standard base64, as produced by HashToken)
package auth
