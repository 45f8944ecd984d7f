package output

// SchemaVersion identifies the NDJSON envelope layout. Bump it on any
// breaking change to the emitted record shapes so scripted consumers can
// detect the new format before parsing.
const SchemaVersion = 1
