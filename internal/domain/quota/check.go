package quota

// Check is the result of comparing usage against a ceiling.
type Check struct {
	Allowed bool
	Used    int64
	Limit   int64
	// Degraded is set when usage could not be read and the check failed open.
	Degraded bool
}

// Evaluate admits while used is strictly below a finite limit.
func Evaluate(used, limit int64) Check {
	if limit < 0 {
		return Check{Allowed: true, Used: used, Limit: Unlimited}
	}
	return Check{Allowed: used < limit, Used: used, Limit: limit}
}

// FailOpen is the check returned when usage state is unavailable.
func FailOpen() Check {
	return Check{Allowed: true, Limit: Unlimited, Degraded: true}
}

// Unlimited reports whether the ceiling is unbounded.
func (c Check) Unlimited() bool {
	return c.Limit < 0
}

// Remaining is the headroom before the ceiling, Unlimited when unbounded.
func (c Check) Remaining() int64 {
	if c.Unlimited() {
		return Unlimited
	}
	if c.Used >= c.Limit {
		return 0
	}
	return c.Limit - c.Used
}
