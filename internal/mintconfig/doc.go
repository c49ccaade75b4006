// Package mintconfig renders and validates the settings tree handed to the
// cdk-mintd daemon.
//
// The tree is a free-form section/key/value mapping taken from the
// deployment file. Rendering produces deterministic TOML so repeated deploys
// of identical input are byte-identical, which keeps redeployment idempotent.
// Validation evaluates every rule in one pass and reports all violations
// rather than stopping at the first, so an operator can fix a broken
// deployment file in a single round trip.
package mintconfig
