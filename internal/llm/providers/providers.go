// Package providers registers every built-in llm provider. Import it for
// side effects to make them available via llm.NewService:
//
//	import _ "github.com/yschughes/llmsvc/internal/llm/providers"
package providers

import (
	_ "github.com/yschughes/llmsvc/internal/llm/gemini"
	_ "github.com/yschughes/llmsvc/internal/llm/nvfoundation"
	_ "github.com/yschughes/llmsvc/internal/llm/ollama"
	_ "github.com/yschughes/llmsvc/internal/llm/openaichat"
)
