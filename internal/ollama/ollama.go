package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/glizzus/themedeck/generator"
)

type jsonmap map[string]any

type ollama struct {
	srvAddr string
	model   string

	client *http.Client
}

var _ generator.Generator = &ollama{}

func Init(model, srvAddr string, httpClient *http.Client) *ollama {
	return &ollama{
		model:   model,
		srvAddr: srvAddr,
		client:  httpClient,
	}
}

func (o *ollama) Name() string { return "ollama" }

func (o *ollama) Model() string { return o.model }

func (o *ollama) IsHealthy() bool {
	resp, err := o.client.Get(o.srvAddr)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (o *ollama) Generate(ctx context.Context, greq generator.Request) (string, error) {
	data := jsonmap{
		"model":  o.model,
		"prompt": greq.Prompt,
		"stream": true,
		"options": jsonmap{
			"temperature": 0,
		},
	}
	if greq.System != "" {
		data["system"] = greq.System
	}
	if len(greq.Format) > 0 {
		data["format"] = greq.Format
	}

	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&data); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.srvAddr+"/api/generate", buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate returned %s", resp.Status)
	}

	content := new(bytes.Buffer)
	respbody := struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
		Error    string `json:"error"`
	}{}

	// The response body is one JSON chunk per line until a chunk with
	// done=true.
	lr := bufio.NewScanner(resp.Body)
	for !respbody.Done {
		if !lr.Scan() {
			if err := lr.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("response ended before final chunk")
		}
		line := lr.Bytes()
		if len(line) == 0 {
			continue
		}

		if err := json.Unmarshal(line, &respbody); err != nil {
			return "", err
		}
		if respbody.Error != "" {
			return "", fmt.Errorf("ollama error: %s", respbody.Error)
		}

		if respbody.Response != "" {
			content.WriteString(respbody.Response)
			if greq.OnToken != nil {
				greq.OnToken(respbody.Response)
			}
		}
	}

	return content.String(), nil
}
