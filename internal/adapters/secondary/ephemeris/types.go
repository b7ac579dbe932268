package ephemeris

import "encoding/json"

// rpcRequest is a JSON-RPC 2.0 envelope for MCP calls.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type initializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ClientInfo      clientInfo     `json:"clientInfo"`
	Capabilities    map[string]any `json:"capabilities"`
}

type clientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type toolCallParams struct {
	Name      string        `json:"name"`
	Arguments toolArguments `json:"arguments"`
}

type toolArguments struct {
	Datetime  string  `json:"datetime"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zodiac    string  `json:"zodiac"`
}

// rpcEnvelope is the outer response: the tool result text is itself a JSON
// document (double-encoded by the server; both decode stages are required).
type rpcEnvelope struct {
	Result *rpcResult `json:"result"`
}

type rpcResult struct {
	Content []rpcContent `json:"content"`
}

type rpcContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// innerPayload is the decoded tool result text.
type innerPayload struct {
	Planets map[string]planetPosition `json:"planets"`
}

type planetPosition struct {
	Longitude *float64 `json:"longitude"`
	Sign      *string  `json:"sign"`
	Degree    *float64 `json:"degree"`
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
