package model

import "encoding/json"

// TaskRAGQA is the only task the agent supports.
const TaskRAGQA = "rag_qa"

// AgentInput carries the question to answer.
type AgentInput struct {
	Question string `json:"question"`
}

// AgentParams tunes retrieval and gating for one request.
type AgentParams struct {
	TopK           int     `json:"top_k"`
	MinConfidence  float64 `json:"min_confidence"`
	RequireSources bool    `json:"require_sources"`
}

// DefaultParams returns the request defaults from the original wire
// contract: retrieve 3 documents, gate at 0.65, include sources.
func DefaultParams() AgentParams {
	return AgentParams{TopK: 3, MinConfidence: 0.65, RequireSources: true}
}

// UnmarshalJSON fills omitted fields with their defaults, so a partial
// params object behaves like the original wire contract.
func (p *AgentParams) UnmarshalJSON(data []byte) error {
	type alias AgentParams
	a := alias(DefaultParams())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = AgentParams(a)
	return nil
}

// AgentRequest is the POST /run request body.
type AgentRequest struct {
	Task   string       `json:"task"`
	Input  AgentInput   `json:"input"`
	Params *AgentParams `json:"params,omitempty"`
}

// AgentOutput is the answer portion of the wire response. It mirrors
// QueryResult minus the status, which is reported at the response level.
type AgentOutput struct {
	Answer             string   `json:"answer"`
	Sources            []Source `json:"sources"`
	Confidence         float64  `json:"confidence"`
	Reasoning          string   `json:"reasoning,omitempty"`
	ConflictDetected   bool     `json:"conflict_detected"`
	ResolutionStrategy string   `json:"resolution_strategy,omitempty"`
}

// Output projects the result into its wire form.
func (r *QueryResult) Output() AgentOutput {
	return AgentOutput{
		Answer:             r.Answer,
		Sources:            r.Sources,
		Confidence:         r.Confidence,
		Reasoning:          r.Reasoning,
		ConflictDetected:   r.ConflictDetected,
		ResolutionStrategy: r.ResolutionStrategy,
	}
}

// Usage accounts for one answered request.
type Usage struct {
	LatencyMS int64  `json:"latency_ms"`
	TokensIn  int    `json:"tokens_in"`
	TokensOut int    `json:"tokens_out"`
	Model     string `json:"model"`
}

// AgentResponse is the POST /run response body.
type AgentResponse struct {
	Status Status      `json:"status"`
	Output AgentOutput `json:"output"`
	Usage  Usage       `json:"usage"`
	Error  string      `json:"error,omitempty"`
}
