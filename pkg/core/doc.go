// Package core defines the shared language of the LeapStore system.
//
// This package contains:
//   - Entity identity and lifecycle (GUID, Entity, Instance, Lifecycle)
//   - Persistence metadata (ColumnDescriptor, EntityDescriptor, ColumnInfo)
//   - Value types with exact storage semantics (Numeric, Date)
//   - The row abstraction returned by connections (Row, MapRow, ResultSet)
//   - Service contracts shared by the backend and the domain (Book, Store)
//   - Sentinel errors used across layers
//
// The Golden Rule: pkg/core imports ONLY stdlib and github.com/google/uuid.
// All other packages depend on core, not the reverse.
package core
