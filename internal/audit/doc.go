// Package audit relays session lifecycle events to a caller-supplied sink without
// blocking the Manager.
//
// A [Dispatcher] owns a bounded buffer and one worker. When the buffer is full it either
// drops the event and counts it (DropIfFull) or waits for room until the emitting
// operation's context ends. Close drains whatever is still buffered.
//
// Sinks shipped here: [NoOpSink], [ChannelSink], [JSONWriterSink], [LoggerSink] (zerolog)
// and [MultiSink] for fan-out.
//
// # What this package must NOT do
//
//   - Decide which events exist. The Manager names them.
//   - Import goSession or any sibling internal package.
package audit
