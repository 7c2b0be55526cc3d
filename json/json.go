// Package json implements the JSON wire formats of the chat and code
// endpoints.
package json

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/tdd"
)

// Record type discriminators.
const (
	typeStart     = "start"
	typeToken     = "token"
	typeCodeStart = "code_start"
	typeCodeEnd   = "code_end"
	typeError     = "error"
	typeDone      = "done"
)

// recordDTO is the JSON representation of a Record with a type discriminator.
type recordDTO struct {
	Type         string    `json:"type"`
	Content      *string   `json:"content,omitempty"`
	Index        *int      `json:"index,omitempty"`
	Role         *string   `json:"role,omitempty"`
	InCode       *bool     `json:"in_code,omitempty"`
	Language     *string   `json:"language,omitempty"`
	Usage        *usageDTO `json:"usage,omitempty"`
	Message      *string   `json:"message,omitempty"`
	Code         *string   `json:"code,omitempty"`
	FinishReason *string   `json:"finish_reason,omitempty"`
}

type usageDTO struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// UnmarshalRecord parses one protocol record. Malformed JSON and unknown
// type tags return an error wrapping tdd.ErrProtocol.
func UnmarshalRecord(data []byte) (tdd.Record, error) {
	var dto recordDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w: %w", tdd.ErrProtocol, err)
	}
	switch dto.Type {
	case typeStart:
		rec := tdd.RecordStart{}
		if dto.Usage != nil {
			rec.Usage = &tdd.Usage{
				PromptTokens:     dto.Usage.PromptTokens,
				CompletionTokens: dto.Usage.CompletionTokens,
				TotalTokens:      dto.Usage.TotalTokens,
			}
		}
		return rec, nil
	case typeToken:
		if dto.Content == nil {
			return nil, fmt.Errorf("token record missing content: %w", tdd.ErrProtocol)
		}
		return tdd.RecordToken{
			Text:     *dto.Content,
			Index:    deref(dto.Index),
			Role:     tdd.Role(derefOr(dto.Role, string(tdd.RoleAssistant))),
			InCode:   deref(dto.InCode),
			Language: deref(dto.Language),
		}, nil
	case typeCodeStart:
		return tdd.RecordCodeStart{Language: deref(dto.Language)}, nil
	case typeCodeEnd:
		return tdd.RecordCodeEnd{}, nil
	case typeError:
		return tdd.RecordError{Message: deref(dto.Message), Code: deref(dto.Code)}, nil
	case typeDone:
		return tdd.RecordDone{
			FinishReason: tdd.FinishReason(derefOr(dto.FinishReason, string(tdd.FinishStop))),
		}, nil
	case "":
		return nil, fmt.Errorf("record missing type: %w", tdd.ErrProtocol)
	default:
		return nil, fmt.Errorf("unknown record type %q: %w", dto.Type, tdd.ErrProtocol)
	}
}

// MarshalRecord serializes a record in the chat endpoint's wire format.
func MarshalRecord(rec tdd.Record) ([]byte, error) {
	var dto recordDTO
	switch r := rec.(type) {
	case tdd.RecordStart:
		dto.Type = typeStart
		if r.Usage != nil {
			dto.Usage = &usageDTO{
				PromptTokens:     r.Usage.PromptTokens,
				CompletionTokens: r.Usage.CompletionTokens,
				TotalTokens:      r.Usage.TotalTokens,
			}
		}
	case tdd.RecordToken:
		role := string(r.Role)
		if role == "" {
			role = string(tdd.RoleAssistant)
		}
		dto = recordDTO{
			Type:    typeToken,
			Content: &r.Text,
			Index:   &r.Index,
			Role:    &role,
		}
		if r.InCode {
			dto.InCode = &r.InCode
			dto.Language = &r.Language
		}
	case tdd.RecordCodeStart:
		dto = recordDTO{Type: typeCodeStart, Language: &r.Language}
	case tdd.RecordCodeEnd:
		dto.Type = typeCodeEnd
	case tdd.RecordError:
		dto = recordDTO{Type: typeError, Message: &r.Message}
		if r.Code != "" {
			dto.Code = &r.Code
		}
	case tdd.RecordDone:
		reason := string(r.FinishReason)
		dto = recordDTO{Type: typeDone, FinishReason: &reason}
	default:
		return nil, fmt.Errorf("%w: %T", tdd.ErrUnhandledRecord, rec)
	}
	return json.Marshal(dto)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func derefOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
