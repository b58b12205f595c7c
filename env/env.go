package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
)

// GetIntEnv gets an integer value from the environment and parses it
func GetIntEnv(name string, varName string) (int, error) {
	value, err := GetEnv(name, varName)
	if err != nil {
		return 0, err
	}

	asInt, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("environment variable value '%s' invalid for the %s ('%s'): %s",
			value, name, varName, err)
	}

	return asInt, nil
}

// GetBoolEnv gets an optional boolean value from the environment,
// using the default if the variable is unset
func GetBoolEnv(name string, varName string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(varName)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue, nil
	}

	asBool, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("environment variable value '%s' invalid for the %s ('%s'): %s",
			value, name, varName, err)
	}

	return asBool, nil
}

// GetBytesEnv gets a byte size value (such as "10MB") from the environment and parses it
func GetBytesEnv(name string, varName string) (datasize.ByteSize, error) {
	value, err := GetEnv(name, varName)
	if err != nil {
		return 0, err
	}

	return parseBytes(name, varName, value)
}

// GetBytesEnvOrDefault is like GetBytesEnv,
// but falls back to the given size string if the variable is unset
func GetBytesEnvOrDefault(name string, varName string, defaultValue string) (datasize.ByteSize, error) {
	return parseBytes(name, varName, GetEnvOrDefault(varName, defaultValue))
}

func parseBytes(name string, varName string, value string) (datasize.ByteSize, error) {
	var asBytes datasize.ByteSize
	if err := asBytes.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return 0, fmt.Errorf("environment variable value '%s' invalid for the %s ('%s'): %s",
			value, name, varName, err)
	}

	return asBytes, nil
}

// GetEnv gets a string value from the environment
func GetEnv(name string, varName string) (string, error) {
	value, exists := os.LookupEnv(varName)
	if !exists {
		return "", fmt.Errorf("no environment variable found for the %s ('%s')", name, varName)
	}

	return value, nil
}

// GetEnvOrDefault gets a string value from the environment,
// returning the default if it is unset or blank
func GetEnvOrDefault(varName string, defaultValue string) string {
	if value, ok := os.LookupEnv(varName); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}

	return defaultValue
}
