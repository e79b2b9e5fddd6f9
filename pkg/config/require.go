package config

import (
	"fmt"
	"log"
	"strings"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// OneOf normalizes value and checks it against allowed.
func OneOf(value string, allowed ...string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", fmt.Errorf("%q is not one of %s", value, strings.Join(allowed, ", "))
}

func MustOneOf(value, envName string, allowed ...string) string {
	v, err := OneOf(value, allowed...)
	if err != nil {
		log.Fatalf("env %s: %v", envName, err)
	}
	return v
}
