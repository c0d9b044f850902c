// Package ehparse extracts structured records from gallery site HTML and hands
// them back to a host runtime through a marshal-in-place boundary call: the host
// passes a buffer holding the page, and the result is serialized into the same
// buffer.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., html/, json/, goquery-backed ehentai/).
package ehparse
