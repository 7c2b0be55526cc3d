package json

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/tdd"
)

type messageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequestDTO struct {
	Messages []messageDTO `json:"messages"`
	Language string       `json:"language,omitempty"`
}

// MarshalChatRequest serializes the body of POST /api/v1/chat. Only role and
// content of each message go over the wire.
func MarshalChatRequest(req tdd.ChatRequest) ([]byte, error) {
	dto := chatRequestDTO{
		Messages: make([]messageDTO, len(req.Messages)),
		Language: string(req.Language),
	}
	for i, m := range req.Messages {
		dto.Messages[i] = messageDTO{Role: string(m.Role), Content: m.Content}
	}
	return json.Marshal(dto)
}

// UnmarshalChatRequest parses a chat request body. Messages get fresh IDs.
func UnmarshalChatRequest(data []byte) (tdd.ChatRequest, error) {
	var dto chatRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return tdd.ChatRequest{}, fmt.Errorf("unmarshal chat request: %w", err)
	}
	req := tdd.ChatRequest{
		Messages: make([]tdd.Message, len(dto.Messages)),
		Language: tdd.Language(dto.Language),
	}
	for i, m := range dto.Messages {
		req.Messages[i] = tdd.NewMessage(tdd.Role(m.Role), m.Content)
	}
	return req, nil
}

type executionRequestDTO struct {
	Language           string `json:"language"`
	ImplementationCode string `json:"implementation_code"`
	TestCode           string `json:"test_code"`
}

type executionResultDTO struct {
	Stdout   string  `json:"stdout"`
	Stderr   string  `json:"stderr"`
	ExitCode int     `json:"exit_code"`
	Error    *string `json:"error,omitempty"`
}

// MarshalExecutionRequest serializes the body of POST /api/v1/code.
func MarshalExecutionRequest(req tdd.ExecutionRequest) ([]byte, error) {
	return json.Marshal(executionRequestDTO{
		Language:           string(req.Language),
		ImplementationCode: req.ImplementationCode,
		TestCode:           req.TestCode,
	})
}

// UnmarshalExecutionResult parses the response of POST /api/v1/code.
func UnmarshalExecutionResult(data []byte) (tdd.ExecutionResult, error) {
	var dto executionResultDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return tdd.ExecutionResult{}, fmt.Errorf("unmarshal execution result: %w: %w", tdd.ErrProtocol, err)
	}
	res := tdd.ExecutionResult{
		Stdout:   dto.Stdout,
		Stderr:   dto.Stderr,
		ExitCode: dto.ExitCode,
	}
	if dto.Error != nil {
		res.Error = *dto.Error
	}
	return res, nil
}

// MarshalExecutionResult serializes an execution result. Used by test
// servers standing in for the code endpoint.
func MarshalExecutionResult(res tdd.ExecutionResult) ([]byte, error) {
	dto := executionResultDTO{
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}
	if res.Error != "" {
		dto.Error = &res.Error
	}
	return json.Marshal(dto)
}

// UnmarshalExecutionRequest parses a code execution request body.
func UnmarshalExecutionRequest(data []byte) (tdd.ExecutionRequest, error) {
	var dto executionRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return tdd.ExecutionRequest{}, fmt.Errorf("unmarshal execution request: %w", err)
	}
	return tdd.ExecutionRequest{
		Language:           tdd.Language(dto.Language),
		ImplementationCode: dto.ImplementationCode,
		TestCode:           dto.TestCode,
	}, nil
}
