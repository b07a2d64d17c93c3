// Package network names the environments a store file can belong to.
//
// Every flat store file carries a 4-byte magic value identifying the
// network (mainnet, testnet, a named devnet) it was written for, so a
// file copied between environments is rejected instead of silently
// loaded. The built-in networks ship as an embedded YAML manifest;
// additional networks can be registered at runtime or merged from a
// user-supplied manifest file.
package network
