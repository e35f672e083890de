/*
Package pswap defines the common types and interfaces that tie the swap
engine together with its collaborators, as well as implementations of some of
the simpler components (when interfaces would be too much overhead).

Time is expressed as UnixTime with seconds precision and is always read from
an injected Clock. Parties and custody accounts are identified by an Address,
a digest of a Condition. State lives in a KVStore; every state transition is
executed on a cache wrap of that store so that it is either applied as a whole
or not at all.

A logger may travel on context.Context. There should exist two functions for
every XYZ of type T that we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)
*/
package pswap
