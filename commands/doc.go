/*
Package commands implements the pswapd command line interface.

Every command opens the persistent swap state stored in the home directory,
runs a single operation and prints the result as JSON or YAML. The serve
command keeps the state open and exposes it over HTTP.

Process configuration is read, in order of precedence, from command line
flags, PSWAP_* environment variables and the config.yaml file found in the
home directory.
*/
package commands
