package mintconfig

import "fmt"

// FieldError describes a single validation failure in the settings tree.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type rule struct {
	field   string
	check   func(Tree) bool
	message string
}

// Required fields the daemon refuses to start without. Failing them at
// deploy time is cheaper than debugging a restart loop from journal logs.
var rules = []rule{
	{
		field:   "info.listen_port",
		check:   func(t Tree) bool { return has(t, "info", "listen_port") },
		message: "must be set so the mint knows which port to bind",
	},
	{
		field:   "ln.ln_backend",
		check:   func(t Tree) bool { return has(t, "ln", "ln_backend") },
		message: "must name a Lightning backend (e.g. \"cln\", \"lnd\", \"FakeWallet\")",
	},
	{
		field:   "database.engine",
		check:   func(t Tree) bool { return has(t, "database", "engine") },
		message: "must name a database engine (e.g. \"sqlite\")",
	},
}

// Validate evaluates every rule against the tree and returns all failures.
// Rules are never short-circuited, so one pass reports every violation.
func Validate(tree Tree) []FieldError {
	var errs []FieldError
	for _, r := range rules {
		if !r.check(tree) {
			errs = append(errs, FieldError{Field: r.field, Message: r.message})
		}
	}
	return errs
}

func has(t Tree, section, key string) bool {
	_, ok := t.Lookup(section, key)
	return ok
}
