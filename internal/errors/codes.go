package errors

// Error codes for the round-trip harness.
//
// Error code ranges:
// E0100-E0199: Parse errors (input or regenerated text)
// E0200-E0299: Unparser errors
// E0300-E0399: Comparison mismatches
// E0400-E0499: Execution errors
// E0900-E0999: Harness and setup errors

const (
	// E0100: Source could not be parsed
	ErrorParse = "E0100"

	// E0101: Regenerated text could not be reparsed
	ErrorReparse = "E0101"

	// E0200: Node or feature the unparser cannot render
	ErrorUnsupportedNode = "E0200"

	// E0300: Trees differ only cosmetically
	ErrorCosmeticMismatch = "E0300"

	// E0301: Trees differ in meaning
	ErrorSemanticMismatch = "E0301"

	// E0400: Regenerated program failed where the original ran
	ErrorExecutionCrash = "E0400"

	// E0401: Execution exceeded its time limit
	ErrorExecutionTimeout = "E0401"

	// E0900: Setup, configuration or I/O failure
	ErrorHarness = "E0900"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorParse:
		return "Source file is not valid for the supported language subset"
	case ErrorReparse:
		return "Regenerated source text is not syntactically valid"
	case ErrorUnsupportedNode:
		return "The unparser cannot render this node for the configured target version"
	case ErrorCosmeticMismatch:
		return "Reparsed tree differs only in literal spelling or other cosmetic detail"
	case ErrorSemanticMismatch:
		return "Reparsed tree differs from the original in meaning"
	case ErrorExecutionCrash:
		return "Regenerated program crashed where the original did not"
	case ErrorExecutionTimeout:
		return "Program execution exceeded the configured timeout"
	case ErrorHarness:
		return "The harness could not run (bad path, configuration or I/O)"
	default:
		return "Unknown error code"
	}
}
