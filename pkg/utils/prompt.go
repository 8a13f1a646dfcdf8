package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/picogrid/air-raid-simulation/pkg/simulation"
)

// EnvPrefix prefixes every parameter override variable
const EnvPrefix = "AIRRAID_"

// SkipPromptsEnv disables interactive prompting when set to "true"
const SkipPromptsEnv = EnvPrefix + "SKIP_PROMPTS"

// ResolveParameters fills in every manifest parameter. Values already in
// preset win, then AIRRAID_<NAME> variables, then the manifest default.
// When interactive is true and prompts are not skipped the user is asked
// for each remaining parameter with the resolved value as the default.
func ResolveParameters(params []simulation.Parameter, preset map[string]interface{}, interactive bool) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(params))
	skip := !interactive || os.Getenv(SkipPromptsEnv) == "true"

	for _, param := range params {
		if v, ok := preset[param.Name]; ok {
			coerced, err := param.Coerce(v)
			if err != nil {
				return nil, fmt.Errorf("invalid value for %s: %w", param.Name, err)
			}
			result[param.Name] = coerced
			continue
		}

		if envValue := os.Getenv(EnvKey(param.Name)); envValue != "" {
			parsed, err := parseEnvValue(envValue, param)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", EnvKey(param.Name), err)
			}
			param.Default = parsed
		}

		if skip {
			value, err := defaultValue(param)
			if err != nil {
				return nil, err
			}
			if value != nil {
				result[param.Name] = value
			}
			continue
		}

		value, err := promptForParameter(param)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", param.Name, err)
		}
		result[param.Name] = value
	}

	return result, nil
}

// EnvKey returns the environment variable that overrides a parameter
func EnvKey(name string) string {
	return EnvPrefix + strings.ToUpper(name)
}

func defaultValue(param simulation.Parameter) (interface{}, error) {
	if param.Default == nil {
		if param.Required {
			return nil, fmt.Errorf("required parameter %s not provided and no default available", param.Name)
		}
		return nil, nil
	}
	value, err := param.Coerce(param.Default)
	if err != nil {
		return nil, fmt.Errorf("invalid default for %s: %w", param.Name, err)
	}
	if err := checkRange(param, value); err != nil {
		return nil, fmt.Errorf("%s: %w", param.Name, err)
	}
	return value, nil
}

func promptForParameter(param simulation.Parameter) (interface{}, error) {
	switch param.Type {
	case "integer":
		return promptInteger(param)
	case "float":
		return promptFloat(param)
	case "string":
		return promptString(param)
	case "boolean":
		return promptBoolean(param)
	case "duration":
		return promptDuration(param)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

// parseEnvValue parses an environment variable value according to the parameter type
func parseEnvValue(value string, param simulation.Parameter) (interface{}, error) {
	switch param.Type {
	case "integer":
		return strconv.Atoi(value)
	case "float":
		return strconv.ParseFloat(value, 64)
	case "string":
		return value, nil
	case "boolean":
		return strconv.ParseBool(value)
	case "duration":
		return time.ParseDuration(value)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

// checkRange enforces Min and Max on numeric parameters
func checkRange(param simulation.Parameter, value interface{}) error {
	switch v := value.(type) {
	case int:
		if param.Min != nil && v < toInt(param.Min) {
			return fmt.Errorf("value must be at least %d", toInt(param.Min))
		}
		if param.Max != nil && v > toInt(param.Max) {
			return fmt.Errorf("value must be at most %d", toInt(param.Max))
		}
	case float64:
		if param.Min != nil && v < toFloat64(param.Min) {
			return fmt.Errorf("value must be at least %g", toFloat64(param.Min))
		}
		if param.Max != nil && v > toFloat64(param.Max) {
			return fmt.Errorf("value must be at most %g", toFloat64(param.Max))
		}
	}
	return nil
}

func defaultString(param simulation.Parameter) string {
	if param.Default == nil {
		return ""
	}
	switch v := param.Default.(type) {
	case float64:
		if param.Type == "integer" {
			return strconv.Itoa(int(v))
		}
	case time.Duration:
		return v.String()
	}
	return fmt.Sprintf("%v", param.Default)
}

func promptInteger(param simulation.Parameter) (int, error) {
	prompt := &survey.Input{
		Message: param.Description,
		Default: defaultString(param),
	}

	var result string
	if err := survey.AskOne(prompt, &result, survey.WithValidator(survey.Required)); err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(result)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %w", err)
	}
	if err := checkRange(param, value); err != nil {
		return 0, err
	}
	return value, nil
}

func promptFloat(param simulation.Parameter) (float64, error) {
	prompt := &survey.Input{
		Message: param.Description,
		Default: defaultString(param),
	}

	var result string
	if err := survey.AskOne(prompt, &result, survey.WithValidator(survey.Required)); err != nil {
		return 0, err
	}

	value, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %w", err)
	}
	if err := checkRange(param, value); err != nil {
		return 0, err
	}
	return value, nil
}

func promptString(param simulation.Parameter) (string, error) {
	if len(param.Options) > 0 {
		prompt := &survey.Select{
			Message: param.Description,
			Options: param.Options,
			Default: defaultString(param),
		}

		var result string
		if err := survey.AskOne(prompt, &result); err != nil {
			return "", err
		}
		return result, nil
	}

	prompt := &survey.Input{
		Message: param.Description,
		Default: defaultString(param),
	}

	var opts []survey.AskOpt
	if param.Required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}

	var result string
	if err := survey.AskOne(prompt, &result, opts...); err != nil {
		return "", err
	}
	return result, nil
}

func promptBoolean(param simulation.Parameter) (bool, error) {
	defaultBool := false
	switch v := param.Default.(type) {
	case bool:
		defaultBool = v
	case string:
		defaultBool = v == "true" || v == "yes" || v == "1"
	}

	prompt := &survey.Confirm{
		Message: param.Description,
		Default: defaultBool,
	}

	var result bool
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func promptDuration(param simulation.Parameter) (time.Duration, error) {
	prompt := &survey.Input{
		Message: param.Description + " (e.g., 90s, 5m, 1h)",
		Default: defaultString(param),
	}

	var result string
	if err := survey.AskOne(prompt, &result, survey.WithValidator(func(val interface{}) error {
		if _, err := time.ParseDuration(val.(string)); err != nil {
			return fmt.Errorf("invalid duration format (use formats like 90s, 5m, 1h)")
		}
		return nil
	})); err != nil {
		return 0, err
	}

	return time.ParseDuration(result)
}

func toInt(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(val)
		return i
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	default:
		return 0
	}
}
