/*
go-framemeta implements the metadata model used by video analytics
pipelines: frames, the detected objects inside them with their geometry
and namespaced attributes, a composable match query language for selecting
objects, and a deterministic binary codec for moving frames between
processes.

The model never touches pixel data. Frame content is an opaque reference
and byte blobs inside attributes pass through uninterpreted.

Each VideoFrame is an independent unit of shared state guarded by a single
reader/writer lock, so any number of queries and reads run concurrently
while mutations take the frame exclusively.

See the package subdirectories for the geometry, attribute, query, codec
and matrix layers.
*/
package framemeta
