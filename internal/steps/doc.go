// Package steps contains the concrete step variants the install and
// uninstall catalogs are assembled from, one file per platform.
//
// Every variant embeds sequence.StepBase and talks to the system through
// external commands (package managers, service managers, disk image
// tooling) or the network (artifact downloads). Steps that run long
// package-manager commands stream their output to the reporter line by
// line and poll the cancellation token per line, killing the process when
// it fires; everything else relies on the sequencer's between-step polls.
//
// Catalog assembly lives in catalog.go: BuildInstallSteps and
// BuildUninstallSteps translate a validated profile into the ordered step
// list for the target platform.
package steps
