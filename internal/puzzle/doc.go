// Package puzzle defines the types and collaborator interfaces shared by the
// aocbud client: puzzle references, cache kinds, and the clock used to resolve
// "today" when no explicit puzzle is requested.
package puzzle
