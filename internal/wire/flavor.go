package wire

import "strings"

// Flavor identifies which upstream wire protocol a base URL speaks.
type Flavor string

const (
	FlavorChatCompletions Flavor = "chat"
	FlavorResponses       Flavor = "responses"
)

// DeriveFlavor applies the substring rule that picks an upstream flavor from
// its base URL: "/v1/responses" routes through Responses, anything else
// (including the default "/v1/chat/completions") through Chat-Completions.
func DeriveFlavor(baseURL string) Flavor {
	if strings.Contains(baseURL, "/v1/responses") {
		return FlavorResponses
	}
	return FlavorChatCompletions
}
