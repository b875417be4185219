package tool

import (
	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

type Status string

const (
	StatusSuccess  Status = "success"
	StatusFallback Status = "fallback"
	StatusError    Status = "error"
)

type ContractMeta struct {
	Auth            Auth `json:"auth"`
	LatencyBudgetMs int  `json:"latencyBudgetMs"`
}

// Result is the outcome of one invocation: exactly one of Success, Fallback
// or Failure.
type Result interface {
	ToolName() string
	Status() Status
	// Data is the output on success, otherwise the fallback value (nil for failures).
	Data() any
	// Reason is empty for successes.
	Reason() string
	// Meta is nil for unregistered tools.
	Meta() *ContractMeta

	isResult()
}

type Success struct {
	Tool     string
	Value    any
	Contract ContractMeta
}

func (s Success) ToolName() string    { return s.Tool }
func (s Success) Status() Status      { return StatusSuccess }
func (s Success) Data() any           { return s.Value }
func (s Success) Reason() string      { return "" }
func (s Success) Meta() *ContractMeta { m := s.Contract; return &m }
func (Success) isResult()             {}

type Fallback struct {
	Tool     string
	Value    any
	Cause    string
	Contract ContractMeta
}

func (f Fallback) ToolName() string    { return f.Tool }
func (f Fallback) Status() Status      { return StatusFallback }
func (f Fallback) Data() any           { return f.Value }
func (f Fallback) Reason() string      { return f.Cause }
func (f Fallback) Meta() *ContractMeta { m := f.Contract; return &m }
func (Fallback) isResult()             {}

type Failure struct {
	Tool     string
	Cause    string
	Contract *ContractMeta
}

func (f Failure) ToolName() string    { return f.Tool }
func (f Failure) Status() Status      { return StatusError }
func (f Failure) Data() any           { return nil }
func (f Failure) Reason() string      { return f.Cause }
func (f Failure) Meta() *ContractMeta { return f.Contract }
func (Failure) isResult()             {}

// Envelope is the JSON shape of a Result.
type Envelope struct {
	ToolName     string        `json:"toolName"`
	Status       Status        `json:"status"`
	Data         any           `json:"data"`
	Error        *string       `json:"error"`
	ContractMeta *ContractMeta `json:"contractMeta"`
}

func ToEnvelope(r Result) Envelope {
	env := Envelope{
		ToolName:     r.ToolName(),
		Status:       r.Status(),
		Data:         r.Data(),
		ContractMeta: r.Meta(),
	}
	if reason := r.Reason(); r.Status() != StatusSuccess {
		env.Error = &reason
	}
	return env
}

// Summarize converts a Result into the per-turn trace entry.
func Summarize(r Result) contractx.ToolCall {
	call := contractx.ToolCall{
		Name:   r.ToolName(),
		Status: string(r.Status()),
		Error:  r.Reason(),
	}
	if meta := r.Meta(); meta != nil {
		call.LatencyBudgetMs = meta.LatencyBudgetMs
		call.AuthRequired = meta.Auth.Required
	}
	return call
}
