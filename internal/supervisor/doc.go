// Package supervisor owns the mint daemon's launch contract and restart
// loop.
//
// A Descriptor captures everything needed to start cdk-mintd: executable,
// working directory, resolved config path, optional secret environment file,
// optional mnemonic file, log level, and extra arguments. The pre-start hook
// assembles the child environment (including reading the mnemonic file) so
// precondition failures surface before the process is ever spawned, and the
// Runner restarts the daemon after a fixed delay on any exit until its
// context is canceled.
package supervisor
