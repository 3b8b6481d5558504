/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps its configuration as a singleton stored under the
"_c:<package name>" key. A configuration is loaded from the genesis file
during the chain initialization and can be updated later using a message
signed by the configuration owner.
*/
package gconf
