// Package driving provides interfaces consumed by external actors (primary/inbound ports).
//
// Driving ports are the operations the core exposes to orchestration
// and presentation layers: ingestion, search, question answering and
// resource discovery. The CLI adapter is the only driving adapter in
// this repository, but the ports keep it swappable.
package driving
