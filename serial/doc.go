// Package serial provides the document serialization framework shared by all
// persisted data types: an insertion-ordered document model with a JSON wire
// codec, a Serializable capability for converting values to and from
// documents (optionally carrying run-time type identity so values can be
// reconstructed polymorphically), a type registry backing reflective decode,
// and two generic homogeneous collections (an ordered Container and a keyed
// Set) that share a filtering, sorting, and slicing algebra.
package serial
