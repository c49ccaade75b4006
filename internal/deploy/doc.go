// Package deploy runs the static transformation pipeline that turns a
// deployment file into launchable artifacts.
//
// The pipeline is synchronous and one-shot: validate the mint settings tree
// (all violations reported at once), render the config and environment
// artifacts, provision the daemon's identity and data directory, build the
// launch descriptor, and record the outcome in the journal. It is
// re-evaluated whenever the deployment file changes; rendering is
// deterministic so an unchanged file is a byte-identical no-op.
package deploy
