/*
Package ports defines the driven ports (interfaces) for pawtrail hosts.

These interfaces decouple checkpointing from concrete storage, so the same
navigation core can persist to memory, local files or Redis.

# Key Interfaces

  - StateStore: persists and loads the checkpoint bundle of a session.
  - DistributedLocker: serializes access to a session across processes.
*/
package ports
