/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration object saved under the "_c:<pkg>"
key. The configuration is loaded from the genesis file ("conf" section) and
validated before it is written.
*/
package gconf
