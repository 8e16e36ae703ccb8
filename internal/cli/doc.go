// Package cli implements the ppl command line tool.
//
// Commands are built with cobra. Credentials and the environment are
// merged from a YAML config file, PPL_* environment variables and
// flags, and access tokens are cached in the system keyring so repeated
// invocations do not hit the token endpoint.
package cli
