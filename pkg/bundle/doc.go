/*
Package bundle provides the key-value container used to checkpoint navigation state.

A Bundle is an ordered map from string keys to strings, integers or opaque
payloads (nested bundles written by a Parcelable). Lookups are strict: a
missing key or a key of the wrong kind is reported as an error rather than a
zero value, so corrupted checkpoints surface immediately.
*/
package bundle
