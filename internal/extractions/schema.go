package extractions

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUndefinedColumnCode = "42703"

// workflowColumns are the columns that arrive in a later migration than the
// base extractions table. Deployments mid-rollout reject statements that
// reference them.
var workflowColumns = []string{"workflow_type", "requires_doctor_review", "workflow_reason"}

type capabilityState int

const (
	capabilityUnknown capabilityState = iota
	capabilitySupported
	capabilityUnsupported
)

// SchemaCapability tracks whether the deployed extractions table carries
// the workflow columns. Writes start optimistic; the first undefined-column
// failure pins the capability to unsupported for the process lifetime, so
// a flapping replica cannot oscillate statement shapes. A success observed
// while unknown confirms support; a success after unsupported does not
// revert the flag.
type SchemaCapability struct {
	mu     sync.RWMutex
	state  capabilityState
	logged bool
}

// Supported reports whether workflow columns should be included in the next
// statement. Unknown is treated as supported.
func (c *SchemaCapability) Supported() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state != capabilityUnsupported
}

// MarkSupported records a successful statement that included the workflow
// columns. It only transitions unknown to supported.
func (c *SchemaCapability) MarkSupported() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == capabilityUnknown {
		c.state = capabilitySupported
	}
}

// MarkUnsupported pins the capability to unsupported, logging the downgrade
// on the first transition only.
func (c *SchemaCapability) MarkUnsupported(logger *slog.Logger, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = capabilityUnsupported
	if !c.logged {
		c.logged = true
		logger.Warn("extractions table is missing workflow columns, continuing without them",
			"error", err)
	}
}

// isUndefinedWorkflowColumn reports whether err is a Postgres
// undefined-column error, or any error whose message names one of the
// workflow columns. The message check covers drivers and pools that do not
// surface a *pgconn.PgError.
func isUndefinedWorkflowColumn(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedColumnCode {
		return true
	}

	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "does not exist") && !strings.Contains(msg, "undefined column") {
		return false
	}

	for _, column := range workflowColumns {
		if strings.Contains(msg, column) {
			return true
		}
	}

	return false
}
