// Package shared groups helpers used by more than one layer. Its testutil
// subpackage holds the captured-log handler and the sample ledger exports
// used by the services, transport and command tests.
package shared
