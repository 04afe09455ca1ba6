// Package todo holds the collection and task model and its JSON codec.
//
// The data file is a JSON array of collections:
//
//	[
//	  {
//	    "title": "Home",
//	    "tasks": [
//	      {"checked": false, "name": "Buy milk"}
//	    ]
//	  }
//	]
//
// # Decoding
//
// Decoding is strict. Every record must carry exactly its documented fields:
// a collection has "title" and "tasks", a task has "checked" and "name". A
// missing field, an unknown field, or a value of the wrong JSON type fails
// with a *DecodeError naming the path and field. So does a key given twice in
// one object; the decoder never picks a winner. The legacy task field
// "task_name" is read as an alias of "name" but never written.
//
// Entity IDs are not part of the file. A Decoder assigns fresh IDs from its
// allocators to every entity it builds, so IDs are stable only within one
// process.
//
// # Validation
//
// Validate checks raw file bytes against the bundled JSON Schema (draft
// 2020-12) and reports every violation, unlike the decoder which stops at the
// first one. A schema file on disk can replace the bundled schema.
//
// # File Format
//
// SaveFile writes 2-space indented JSON with a trailing newline, through a
// temporary file renamed over the destination.
package todo
