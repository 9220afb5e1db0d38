package errors

import "fmt"

// Common error wrapping patterns used throughout the codebase

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, loc SourceLocation, cause error) *BaseError {
	message := fmt.Sprintf("failed to parse %s", item)
	return Wrap(SyntaxErrorCode, message, cause).WithLocation(loc)
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to generate %s", item)
	return Wrap(GenerationErrorCode, message, cause).
		WithContext("target", item)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return Wrap(TemplateErrorCode, message, cause).
		WithContext("template", templateName).
		WithSuggestion("Template errors are generator bugs; please report the input declaration")
}

// WrapConfigurationError wraps configuration loading errors
func WrapConfigurationError(source string, cause error) *BaseError {
	message := fmt.Sprintf("invalid configuration in %s", source)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("source", source).
		WithSuggestion("Check .spyable.yaml and SPYABLE_* environment variables")
}
