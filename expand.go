/*
 * Copyright (C) 2024 by Jason Figge
 */

package wipe

import (
	"bytes"
	"fmt"
	"strconv"
)

var ErrExpandCapability = fmt.Errorf("terminfo error - malformed capability sequence")

// parameter is one value on the expansion stack: a number or a word.
type parameter struct {
	number int
	text   string
	isText bool
}

func (p parameter) format(verb byte) string {
	switch verb {
	case 'd':
		return strconv.Itoa(p.number)
	case 'o':
		return strconv.FormatInt(int64(p.number), 8)
	case 'x':
		return strconv.FormatInt(int64(p.number), 16)
	case 'X':
		return strconv.FormatUint(uint64(uint32(p.number)), 16)
	case 's':
		if p.isText {
			return p.text
		}
		return strconv.Itoa(p.number)
	default: // 'c'
		return string(rune(p.number))
	}
}

func (p parameter) truth() bool {
	if p.isText {
		return p.text != ""
	}
	return p.number != 0
}

// expandContext carries the static and dynamic parameter variables that
// successive expansions within a single strategy execution share. It is
// owned by the dispatch call that created it and discarded at call end.
type expandContext struct {
	static  [26]parameter
	dynamic [26]parameter
}

func newExpandContext() *expandContext {
	return &expandContext{}
}

// expand substitutes the %-codes of a terminfo parameterized string, per
// terminfo(5): positional parameters, constants, variables, arithmetic and
// logical operators, and %? %t %e %; conditionals. Padding markers ($<n>)
// are parsed and dropped; baud-based delays are meaningless on an
// arbitrary sink. Malformed sequences return an error.
func (c *expandContext) expand(sequence []byte, params ...interface{}) ([]byte, error) {
	args := make([]parameter, 9)
	for i, p := range params {
		if i >= len(args) {
			break
		}
		switch v := p.(type) {
		case int:
			args[i] = parameter{number: v}
		case string:
			args[i] = parameter{text: v, isText: true}
		default:
			return nil, fmt.Errorf("%w: unsupported parameter type %T", ErrExpandCapability, p)
		}
	}

	var stack []parameter
	push := func(p parameter) { stack = append(stack, p) }
	pop := func() parameter {
		if len(stack) == 0 {
			return parameter{}
		}
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return p
	}

	var out []byte
	i := 0
	for i < len(sequence) {
		b := sequence[i]
		if b == '$' && i+1 < len(sequence) && sequence[i+1] == '<' {
			end := bytes.IndexByte(sequence[i+2:], '>')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated padding", ErrExpandCapability)
			}
			i += end + 3
			continue
		}
		if b != '%' {
			out = append(out, b)
			i++
			continue
		}
		i++
		if i >= len(sequence) {
			return nil, fmt.Errorf("%w: trailing %%", ErrExpandCapability)
		}
		op := sequence[i]
		i++
		switch op {
		case '%':
			out = append(out, '%')
		case 'd', 'o', 'x', 'X', 's', 'c':
			out = append(out, pop().format(op)...)
		case 'p':
			if i >= len(sequence) || sequence[i] < '1' || sequence[i] > '9' {
				return nil, fmt.Errorf("%w: bad parameter index", ErrExpandCapability)
			}
			push(args[sequence[i]-'1'])
			i++
		case 'P':
			name, err := variableSlot(sequence, i)
			if err != nil {
				return nil, err
			}
			if name <= 'Z' {
				c.static[name-'A'] = pop()
			} else {
				c.dynamic[name-'a'] = pop()
			}
			i++
		case 'g':
			name, err := variableSlot(sequence, i)
			if err != nil {
				return nil, err
			}
			if name <= 'Z' {
				push(c.static[name-'A'])
			} else {
				push(c.dynamic[name-'a'])
			}
			i++
		case '\'':
			if i+1 >= len(sequence) || sequence[i+1] != '\'' {
				return nil, fmt.Errorf("%w: unterminated character constant", ErrExpandCapability)
			}
			push(parameter{number: int(sequence[i])})
			i += 2
		case '{':
			end := bytes.IndexByte(sequence[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated integer constant", ErrExpandCapability)
			}
			n, err := strconv.Atoi(string(sequence[i : i+end]))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrExpandCapability, err)
			}
			push(parameter{number: n})
			i += end + 1
		case 'l':
			push(parameter{number: len(pop().text)})
		case 'i':
			args[0].number++
			args[1].number++
		case '+', '-', '*', '/', 'm', '&', '|', '^', '=', '<', '>', 'A', 'O':
			second, first := pop(), pop()
			push(parameter{number: binaryOp(op, first.number, second.number)})
		case '!':
			push(parameter{number: boolToInt(!pop().truth())})
		case '~':
			push(parameter{number: ^pop().number})
		case '?':
			// conditional opens; nothing to do until %t
		case 't':
			if !pop().truth() {
				next, err := skipConditional(sequence, i, true)
				if err != nil {
					return nil, err
				}
				i = next
			}
		case 'e':
			// reached only after an executed then-branch
			next, err := skipConditional(sequence, i, false)
			if err != nil {
				return nil, err
			}
			i = next
		case ';':
			// conditional closes
		default:
			return nil, fmt.Errorf("%w: %%%c", ErrExpandCapability, op)
		}
	}
	return out, nil
}

func variableSlot(sequence []byte, i int) (byte, error) {
	if i >= len(sequence) {
		return 0, fmt.Errorf("%w: missing variable name", ErrExpandCapability)
	}
	name := sequence[i]
	if (name < 'a' || name > 'z') && (name < 'A' || name > 'Z') {
		return 0, fmt.Errorf("%w: bad variable name %q", ErrExpandCapability, name)
	}
	return name, nil
}

func binaryOp(op byte, first, second int) int {
	switch op {
	case '+':
		return first + second
	case '-':
		return first - second
	case '*':
		return first * second
	case '/':
		if second == 0 {
			return 0
		}
		return first / second
	case 'm':
		if second == 0 {
			return 0
		}
		return first % second
	case '&':
		return first & second
	case '|':
		return first | second
	case '^':
		return first ^ second
	case '=':
		return boolToInt(first == second)
	case '<':
		return boolToInt(first < second)
	case '>':
		return boolToInt(first > second)
	case 'A':
		return boolToInt(first != 0 && second != 0)
	default: // 'O'
		return boolToInt(first != 0 || second != 0)
	}
}

// skipConditional advances past the untaken branch of a %? conditional,
// honoring nesting. With stopAtElse it halts at a same-depth %e as well as
// the closing %;.
func skipConditional(sequence []byte, i int, stopAtElse bool) (int, error) {
	depth := 0
	for i < len(sequence) {
		if sequence[i] != '%' {
			i++
			continue
		}
		i++
		if i >= len(sequence) {
			break
		}
		switch sequence[i] {
		case '?':
			depth++
		case ';':
			if depth == 0 {
				return i + 1, nil
			}
			depth--
		case 'e':
			if depth == 0 && stopAtElse {
				return i + 1, nil
			}
		case '\'':
			i += 2 // character constant may hide ; or e
		}
		i++
	}
	return 0, fmt.Errorf("%w: unterminated conditional", ErrExpandCapability)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
