package mysqlmcp

import (
	"context"
	"fmt"
	"time"

	"github.com/rickchristie/mysql-mcp/internal/errs"
)

// toolFunc is the body of a tool once credentials are resolved.
type toolFunc func(ctx context.Context, params ConnectionParams) (string, error)

// runTool is the boundary every tool goes through. It resolves credentials,
// runs fn and turns whatever fn returns, errors and panics included, into
// the string handed back to the agent.
func (g *Gateway) runTool(ctx context.Context, tool string, fn toolFunc) (out string) {
	start := time.Now()

	params, err := ResolveConnectionParams(g.getenv)
	if err != nil {
		g.logger.Warn().
			Err(err).
			Str("tool", tool).
			Str("kind", errs.ErrKindConfig.String()).
			Msg("environment not configured")
		return err.Error()
	}

	defer func() {
		if r := recover(); r != nil {
			out = g.diagnostic(tool, params, errs.New(errs.ErrKindUnknown, fmt.Sprintf("panic: %v", r)), start)
		}
	}()

	out, err = fn(ctx, params)
	if err != nil {
		if errs.IsInvalidInput(err) {
			g.logger.Warn().
				Str("tool", tool).
				Str("reason", err.Error()).
				Msg("input rejected")
			return "Error: " + err.Error()
		}
		return g.diagnostic(tool, params, err, start)
	}

	g.logger.Info().
		Str("tool", tool).
		Dur("duration", time.Since(start)).
		Msg("tool succeeded")
	return out
}

func (g *Gateway) diagnostic(tool string, params ConnectionParams, err error, start time.Time) string {
	errMsg := err.Error()
	g.logger.Error().
		Err(err).
		Str("tool", tool).
		Str("kind", errs.KindOf(err).String()).
		Strs("error_prompts", g.errPrompts.MatchedPatterns(errMsg)).
		Dur("duration", time.Since(start)).
		Msg("tool failed")
	return g.errPrompts.Annotate(diagnosticMessage(params, errMsg), errMsg)
}

// diagnosticMessage renders a failure together with the variables the user
// should look at.
func diagnosticMessage(params ConnectionParams, errMsg string) string {
	hint := "Please check your environment variables."
	if d, ok := lookupDialect(params.Driver); ok {
		hint = d.checkEnvHint(params)
	}
	return "Database Error: " + errMsg + "\n" + hint
}
