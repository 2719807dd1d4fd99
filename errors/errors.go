// Copyright 2022-2023 Tigris Data, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
)

// Kind groups reasons by the compilation stage that detected them.
type Kind uint8

const (
	UnknownKind Kind = iota
	ConfigParse
	Type
	Tokenizer
	Field
	Schema
	Bind
	Document
)

var kindNames = [...]string{
	UnknownKind: "unknown",
	ConfigParse: "config_parse",
	Type:        "type",
	Tokenizer:   "tokenizer",
	Field:       "field",
	Schema:      "schema",
	Bind:        "bind",
	Document:    "document",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[UnknownKind]
}

// Reason is the violated rule. Every reason belongs to exactly one Kind.
type Reason uint8

const (
	NoReason Reason = iota

	MalformedDocument
	UnknownKey
	InvalidIndexID
	InvalidVersion

	UnknownType
	MissingInputFormats
	InvalidInputFormat
	InvalidOutputFormat
	InvalidPrecision
	PrecisionMismatch
	UnsupportedOption

	UnknownTokenizer
	InvalidTokenizerSpec

	InvalidFieldName
	ReservedField
	DuplicateField
	EmptyObject
	NestingTooDeep
	IneligibleFastField

	InvalidTimestampField
	InvalidTagField
	InvalidMode

	UnknownSearchField
	UnsupportedSearchFieldType
	InvalidSplitTarget
	InvalidCommitTimeout
	InvalidRetention

	InvalidValue
	UnknownDocumentField
)

type reasonInfo struct {
	name string
	kind Kind
}

var reasons = [...]reasonInfo{
	NoReason:                   {"none", UnknownKind},
	MalformedDocument:          {"MalformedDocument", ConfigParse},
	UnknownKey:                 {"UnknownKey", ConfigParse},
	InvalidIndexID:             {"InvalidIndexID", ConfigParse},
	InvalidVersion:             {"InvalidVersion", ConfigParse},
	UnknownType:                {"UnknownType", Type},
	MissingInputFormats:        {"MissingInputFormats", Type},
	InvalidInputFormat:         {"InvalidInputFormat", Type},
	InvalidOutputFormat:        {"InvalidOutputFormat", Type},
	InvalidPrecision:           {"InvalidPrecision", Type},
	PrecisionMismatch:          {"PrecisionMismatch", Type},
	UnsupportedOption:          {"UnsupportedOption", Type},
	UnknownTokenizer:           {"UnknownTokenizer", Tokenizer},
	InvalidTokenizerSpec:       {"InvalidTokenizerSpec", Tokenizer},
	InvalidFieldName:           {"InvalidFieldName", Field},
	ReservedField:              {"ReservedField", Field},
	DuplicateField:             {"DuplicateField", Field},
	EmptyObject:                {"EmptyObject", Field},
	NestingTooDeep:             {"NestingTooDeep", Field},
	IneligibleFastField:        {"IneligibleFastField", Field},
	InvalidTimestampField:      {"InvalidTimestampField", Schema},
	InvalidTagField:            {"InvalidTagField", Schema},
	InvalidMode:                {"InvalidMode", Schema},
	UnknownSearchField:         {"UnknownSearchField", Bind},
	UnsupportedSearchFieldType: {"UnsupportedSearchFieldType", Bind},
	InvalidSplitTarget:         {"InvalidSplitTarget", Bind},
	InvalidCommitTimeout:       {"InvalidCommitTimeout", Bind},
	InvalidRetention:           {"InvalidRetention", Bind},
	InvalidValue:               {"InvalidValue", Document},
	UnknownDocumentField:       {"UnknownDocumentField", Document},
}

func (r Reason) String() string {
	if int(r) < len(reasons) {
		return reasons[r].name
	}
	return reasons[NoReason].name
}

// Kind returns the stage the reason belongs to.
func (r Reason) Kind() Kind {
	if int(r) < len(reasons) {
		return reasons[r].kind
	}
	return UnknownKind
}

// Error is returned by every stage of the compiler. It carries enough context for a configuration author to fix
// the document without looking at engine internals: the rule that was violated, and the field or setting that
// violated it. Code is the grpc code a transport layer should surface; all compile errors are InvalidArgument.
type Error struct {
	Kind    Kind       `json:"kind"`
	Reason  Reason     `json:"reason"`
	Code    codes.Code `json:"code"`
	Field   string     `json:"field,omitempty"`
	Setting string     `json:"setting,omitempty"`
	Message string     `json:"message"`
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	sb.WriteString(" error: ")
	sb.WriteString(e.Reason.String())
	if len(e.Field) > 0 {
		sb.WriteString(fmt.Sprintf(" (field '%s')", e.Field))
	}
	if len(e.Setting) > 0 {
		sb.WriteString(fmt.Sprintf(" (setting '%s')", e.Setting))
	}
	if len(e.Message) > 0 {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	return sb.String()
}

// WithField attaches the field path. An already attached path is kept so that the innermost (full) path wins
// when an error travels up through nested objects.
func (e *Error) WithField(name string) *Error {
	if len(e.Field) == 0 {
		e.Field = name
	}
	return e
}

// WithSetting attaches the name of the index-level setting that failed.
func (e *Error) WithSetting(name string) *Error {
	if len(e.Setting) == 0 {
		e.Setting = name
	}
	return e
}

// New constructs an error for the given reason, the kind is derived from the reason.
func New(reason Reason, format string, args ...any) *Error {
	return &Error{
		Kind:    reason.Kind(),
		Reason:  reason,
		Code:    codes.InvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewFieldError constructs an error with the field context already attached.
func NewFieldError(reason Reason, field string, format string, args ...any) *Error {
	return New(reason, format, args...).WithField(field)
}

// NewSettingError constructs an error with the setting context already attached.
func NewSettingError(reason Reason, setting string, format string, args ...any) *Error {
	return New(reason, format, args...).WithSetting(setting)
}

// Internal constructs an error for conditions that are not caused by the document.
func Internal(format string, args ...any) *Error {
	return &Error{
		Kind:    UnknownKind,
		Reason:  NoReason,
		Code:    codes.Internal,
		Message: fmt.Sprintf(format, args...),
	}
}

// ReasonOf returns the reason of the first *Error in the chain, NoReason otherwise.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return NoReason
}

// HasReason is a shortcut for ReasonOf(err) == reason.
func HasReason(err error, reason Reason) bool {
	return err != nil && ReasonOf(err) == reason
}

// Convenience helpers.

var (
	As = errors.As
	Is = errors.Is
)
