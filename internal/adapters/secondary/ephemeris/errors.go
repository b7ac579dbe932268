package ephemeris

import "errors"

// Each parse stage of the MCP response fails with its own sentinel so retry
// and debugging logic can tell exactly where the payload went wrong.
var (
	ErrMissingSessionID    = errors.New("missing mcp session id header")
	ErrMissingSSEData      = errors.New("missing sse data line")
	ErrInvalidEnvelopeJSON = errors.New("invalid json in sse envelope")
	ErrUnexpectedEnvelope  = errors.New("unexpected mcp envelope shape")
	ErrInvalidInnerJSON    = errors.New("invalid inner json payload")
	ErrMissingMoonFields   = errors.New("moon fields not found in tool response")
)
