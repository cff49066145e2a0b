// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package forms

import (
	"fmt"
	"slices"
	"strings"
)

// fieldOrder is the order fields appear on the forms.
var fieldOrder = []string{"title", "description", "startDate", "startTime", "endDate", "endTime", "userId", "vote"}

// Errors holds validation failures by field name plus whole-form failures.
type Errors struct {
	Fields map[string][]string
	Form   []string
}

func (e *Errors) Add(field, name string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	if !slices.Contains(e.Fields[field], name) {
		e.Fields[field] = append(e.Fields[field], name)
	}
}

func (e *Errors) AddForm(name string) {
	if !slices.Contains(e.Form, name) {
		e.Form = append(e.Form, name)
	}
}

// Has reports whether field failed with the given error name. An empty field
// checks the form-level errors.
func (e *Errors) Has(field, name string) bool {
	if field == "" {
		return slices.Contains(e.Form, name)
	}
	return slices.Contains(e.Fields[field], name)
}

func (e *Errors) Empty() bool {
	return len(e.Fields) == 0 && len(e.Form) == 0
}

func (e *Errors) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages renders every failure as a sentence, fields first in form order.
func (e *Errors) Messages() []string {
	var out []string
	for _, field := range e.fieldNames() {
		for _, name := range e.Fields[field] {
			out = append(out, fieldMessage(field, name))
		}
	}
	for _, name := range e.Form {
		out = append(out, formMessage(name))
	}
	return out
}

func (e *Errors) fieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range fieldOrder {
		if _, ok := e.Fields[f]; ok {
			names = append(names, f)
		}
	}
	var extra []string
	for f := range e.Fields {
		if !slices.Contains(fieldOrder, f) {
			extra = append(extra, f)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}

var labels = map[string]string{
	"title":       "Title",
	"description": "Description",
	"startDate":   "Start date",
	"startTime":   "Start time",
	"endDate":     "End date",
	"endTime":     "End time",
	"userId":      "User ID",
	"vote":        "Vote",
}

func fieldMessage(field, name string) string {
	label, ok := labels[field]
	if !ok {
		label = field
	}
	switch name {
	case ErrRequired:
		return label + " is required"
	case ErrMinLength:
		return fmt.Sprintf("%s must be at least %d characters", label, titleMin)
	case ErrMaxLength:
		return fmt.Sprintf("%s must be at most %d characters", label, titleMax)
	case ErrDate:
		return label + " must be a date (YYYY-MM-DD)"
	case ErrPastDate:
		return label + " must be after today"
	case ErrInvalidOption:
		return label + " is not one of the allowed options"
	case ErrPattern:
		switch field {
		case "startTime", "endTime":
			return label + " must be a time (HH:MM)"
		case "userId":
			return label + " must be a positive number"
		}
		return label + " has an invalid format"
	}
	return label + ": " + name
}

func formMessage(name string) string {
	if name == ErrEndDateBeforeStart {
		return "End date must be after the start date"
	}
	return name
}
