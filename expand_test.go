/*
 * Copyright (C) 2024 by Jason Figge
 */

package wipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	tests := map[string]struct {
		sequence string
		params   []interface{}
		expected string
		errStr   string
	}{
		"passthrough":           {sequence: "abc", expected: "abc"},
		"literal percent":       {sequence: "100%%", expected: "100%"},
		"positional parameters": {sequence: "%p1%d;%p2%dH", params: []interface{}{3, 4}, expected: "3;4H"},
		"increment":             {sequence: "%i%p1%d;%p2%d", params: []interface{}{1, 2}, expected: "2;3"},
		"integer constant":      {sequence: "%{42}%d", expected: "42"},
		"character constant":    {sequence: "%'x'%c", expected: "x"},
		"string parameter":      {sequence: "%p1%s", params: []interface{}{"hello"}, expected: "hello"},
		"string length":         {sequence: "%p1%l%d", params: []interface{}{"four"}, expected: "4"},
		"addition":              {sequence: "%p1%p2%+%d", params: []interface{}{2, 3}, expected: "5"},
		"subtraction order":     {sequence: "%p1%p2%-%d", params: []interface{}{7, 2}, expected: "5"},
		"comparison":            {sequence: "%p1%{5}%>%d", params: []interface{}{9}, expected: "1"},
		"negation":              {sequence: "%p1%!%d", params: []interface{}{0}, expected: "1"},
		"hex output":            {sequence: "%{255}%x", expected: "ff"},
		"octal output":          {sequence: "%{8}%o", expected: "10"},
		"conditional then":      {sequence: "%?%p1%tyes%eno%;", params: []interface{}{1}, expected: "yes"},
		"conditional else":      {sequence: "%?%p1%tyes%eno%;", params: []interface{}{0}, expected: "no"},
		"conditional no else":   {sequence: "%?%p1%tyes%;done", params: []interface{}{0}, expected: "done"},
		"nested conditional":    {sequence: "%?%p1%t%?%p2%ta%eb%;%ec%;", params: []interface{}{1, 0}, expected: "b"},
		"padding dropped":       {sequence: "ab$<50/>c", expected: "abc"},
		"trailing percent":      {sequence: "abc%", errStr: "trailing"},
		"unknown code":          {sequence: "%q", errStr: "malformed"},
		"bad parameter index":   {sequence: "%p0", errStr: "bad parameter index"},
		"unterminated cond":     {sequence: "%?%p1%tyes", params: []interface{}{0}, errStr: "unterminated conditional"},
		"unterminated padding":  {sequence: "$<50", errStr: "unterminated padding"},
		"unterminated constant": {sequence: "%{42", errStr: "unterminated integer constant"},
	}
	for name, test := range tests {
		t.Run(name, func(tt *testing.T) {
			bs, err := newExpandContext().expand([]byte(test.sequence), test.params...)
			if test.errStr != "" {
				assert.ErrorIs(tt, err, ErrExpandCapability)
				assert.ErrorContains(tt, err, test.errStr)
			} else {
				assert.NoError(tt, err)
				assert.Equal(tt, test.expected, string(bs))
			}
		})
	}
}

func TestExpandSharedVariables(t *testing.T) {
	// static variables survive across expansions sharing a context
	ctx := newExpandContext()
	_, err := ctx.expand([]byte("%{7}%PA"))
	assert.NoError(t, err)
	bs, err := ctx.expand([]byte("%gA%d"))
	assert.NoError(t, err)
	assert.Equal(t, "7", string(bs))

	// a fresh context starts from zeroes
	bs, err = newExpandContext().expand([]byte("%gA%d"))
	assert.NoError(t, err)
	assert.Equal(t, "0", string(bs))
}

func TestExpandDynamicVariables(t *testing.T) {
	ctx := newExpandContext()
	bs, err := ctx.expand([]byte("%p1%Pa%ga%d-%ga%d"), 6)
	assert.NoError(t, err)
	assert.Equal(t, "6-6", string(bs))
}
