package recordstore

// Coupling contract for future collaborators.
//
// Neither a B+-tree index nor a compile-time schema façade is
// implemented in this module — both are external collaborators, not
// part of the core. The only thing either would need from this package
// is that a RecordHandle's bytes stay stable for as long as the page it
// names is never compacted (this package never compacts; deletion is
// unsupported). A B+-tree would store RecordHandle values as its leaf
// payload, keyed by whatever logical key its caller indexes on; a schema
// façade would translate typed field specifications into AddRecord/
// GetField calls. Neither contract is enforced here beyond the
// RecordHandle/FieldHandle struct shapes themselves.
