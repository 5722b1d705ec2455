package themedeck

import (
	"fmt"
	"net/http"

	"github.com/glizzus/themedeck/generator"
	"github.com/glizzus/themedeck/internal/ollama"
	"github.com/glizzus/themedeck/internal/openai"
)

const defaultOllamaModel = "llama3.2"

type InitOptions struct {
	OllamaServer string
	OllamaModel  string

	OpenAI        bool
	OpenAIModel   string
	OpenAIBaseURL string

	HttpClient *http.Client // if nil uses http.DefaultClient
}

type ThemeDeck struct {
	generator.Generator
}

func Init(tio InitOptions) (*ThemeDeck, error) {
	td := &ThemeDeck{}

	httpClient := tio.HttpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var n int
	if tio.OpenAI {
		n++
	}
	if tio.OllamaServer != "" {
		n++
	}
	switch n {
	case 0:
		return nil, fmt.Errorf("no backend selected")
	case 1:
		// no-op
	default:
		return nil, fmt.Errorf("multiple backends selected, only one allowed")
	}

	if tio.OpenAI {
		td.Generator = openai.Init(tio.OpenAIModel, tio.OpenAIBaseURL, httpClient)
	} else {
		model := tio.OllamaModel
		if model == "" {
			model = defaultOllamaModel
		}
		td.Generator = ollama.Init(model, tio.OllamaServer, httpClient)
	}

	return td, nil
}
