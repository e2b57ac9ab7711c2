// Package sanitize reduces untrusted HTML to a fixed allow-listed subset.
//
// A Policy is a plain value listing the permitted elements, attributes, link
// targets and custom element definitions. Compile turns it into a
// bluemonday policy; New wires that compiled policy to an on-disk
// DefinitionCache so that every process serving the same Policy agrees on a
// single serialized definition.
//
// Sanitizing never fails on content: disallowed markup is dropped, unwrapped
// or escaped. Only construction can fail, when the policy is malformed or the
// cache directory is unusable.
package sanitize
