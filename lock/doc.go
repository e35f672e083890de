/*
Package lock provides per key mutual exclusion for the swap engine.

Local serializes callers within a single process. Redis extends the exclusion
to every process that shares the same Redis server.
*/
package lock
