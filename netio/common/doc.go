// Package common provides the shared building blocks of the netio tree:
// endpoint descriptors with on-demand address resolution, the typed error
// kinds used across all transports, the cross-platform socket option
// surface, configuration structs for the CLI, and the logger factory.
package common
