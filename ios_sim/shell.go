package ios_sim

import (
	"context"
	"time"

	sh "github.com/codeskyblue/go-sh"
)

// ShellRunner runs a command through a go-sh session bounded by timeout
type ShellRunner func(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error)

// shellCommand runs name in a go-sh session.
// go-sh has no context support, so the session timeout is shortened to the ctx deadline.
// A ctx cancelled without a deadline only stops commands that have not started yet, running ones end at timeout.
func shellCommand(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session := sh.NewSession()
	if limit := sessionTimeout(ctx, timeout); limit > 0 {
		session.SetTimeout(limit)
	}

	shArgs := make([]interface{}, 0, len(args))
	for _, arg := range args {
		shArgs = append(shArgs, arg)
	}

	out, err := session.Command(name, shArgs...).CombinedOutput()
	if err != nil && ctx.Err() != nil {
		return out, ctx.Err()
	}
	return out, err
}

// sessionTimeout is the smaller of timeout and the time left until the ctx deadline, zero means unbounded
func sessionTimeout(ctx context.Context, timeout time.Duration) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return timeout
	}

	left := time.Until(deadline)
	if left <= 0 {
		left = time.Nanosecond
	}
	if timeout <= 0 || left < timeout {
		return left
	}
	return timeout
}
