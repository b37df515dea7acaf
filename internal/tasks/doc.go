// Package tasks manages the persisted task list.
//
// The list is stored under the "tasks" key of the state directory as a JSON
// array that follows tasks.schema.json:
//
//	[
//	  {
//	    "id": 1700000000000,
//	    "text": "Buy milk",
//	    "completed": false,
//	    "createdAt": "2024-01-01T00:00:00.000Z"
//	  }
//	]
//
// # Identifiers
//
// Ids are Unix milliseconds at creation, bumped past every id already handed
// out by the Manager so two tasks added in the same millisecond stay distinct.
//
// # Mutations
//
// Add, Toggle and Delete each write the whole list back exactly once. A failed
// write is logged and returned, but the in-memory list keeps the change.
// Empty or whitespace-only text is ignored without an error.
package tasks
