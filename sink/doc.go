/*
Package sink provides destinations for the events emitted by the swap engine.

Log writes a line per event, SQLite keeps a durable audit trail that can be
queried per swap and Kafka publishes every event to a topic, keyed by the
commitment key so that the events of a swap are delivered in order. Multi
combines any number of sinks.
*/
package sink
