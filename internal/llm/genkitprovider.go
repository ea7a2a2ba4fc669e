package llm

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// RegisterGenkitProvider wires client as a Genkit model definition, so an
// operator can route a reconciliation run through genkit's own
// tracing/eval tooling without the core caring which path produced the
// reply text (§4.D). Genkit remains a secondary, optional path; the loop
// controller talks to Client.Generate directly on the default hot path.
func RegisterGenkitProvider(ctx context.Context, client *Client) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, nil)

	genkit.DefineModel(
		g,
		"bork/"+client.config.DefaultModel,
		&ai.ModelOptions{
			Label: "bork reconciliation model",
			Supports: &ai.ModelSupports{
				Multiturn:  false,
				SystemRole: false,
			},
		},
		func(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
			prompt := renderGenkitPrompt(req)
			reply, err := client.Generate(ctx, prompt)
			if err != nil {
				return nil, err
			}
			return &ai.ModelResponse{
				Request: req,
				Message: &ai.Message{
					Content: []*ai.Part{ai.NewTextPart(reply)},
				},
			}, nil
		},
	)

	return g, nil
}

// renderGenkitPrompt flattens a multi-message genkit request into the
// single string Client.Generate expects; bork never sends multi-turn
// conversations, so this only concatenates message text parts in order.
func renderGenkitPrompt(req *ai.ModelRequest) string {
	var out string
	for _, msg := range req.Messages {
		for _, part := range msg.Content {
			if part.IsText() {
				out += part.Text
			}
		}
	}
	return out
}
