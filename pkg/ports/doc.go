/*
Package ports defines the driven ports (interfaces) for the Arbor engine.

These interfaces decouple the core state machine from external
implementations, allowing the runtime to work with various storage backends
and capture surfaces.

# Key Interfaces

  - TemplateStore / ResultStore: persistence of questionnaire templates and
    completed session results (memory, file, redis adapters).
  - DistributedLocker: distributed locking for concurrent library access.
  - SessionEngine: the stateless operation surface consumed by adapters
    (HTTP, MCP, CLI runner).
  - MoodSource: the terminal-capture collaborator supplying the mood rating
    and note appended to every session.
*/
package ports
