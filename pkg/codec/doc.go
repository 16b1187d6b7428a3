// Package codec persists typed entity fields as physical columns.
//
// Each column type is served by a Codec with three duties: reading a field
// from a result row into an entity, describing the physical columns the
// field needs, and serializing the field into column/value pairs. One
// logical column may expand into several physical ones; numerics use
// <name>_num and <name>_denom.
//
// Codecs are held in a Registry that is filled once at startup and read
// concurrently afterwards.
package codec
