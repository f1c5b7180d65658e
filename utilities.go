/*
 * Copyright (C) 2024 by Jason Figge
 */

package wipe

import (
	"fmt"
)

func toBool(key string, value interface{}) (bool, error) {
	var b bool
	var ok bool
	if b, ok = value.(bool); ok {
		return b, nil
	} else {
		return false, fmt.Errorf("invalid data type - %s != %s", key, "bool")
	}
}

func toString(key string, value interface{}) (string, error) {
	var s string
	var ok bool
	if s, ok = value.(string); ok {
		return s, nil
	} else {
		return "", fmt.Errorf("invalid data type - %s != %s", key, "string")
	}
}
