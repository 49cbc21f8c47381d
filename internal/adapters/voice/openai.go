package voice

import (
	"bytes"
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Transcriber converts voice notes to text with the OpenAI audio API.
// WhatsApp voice notes arrive as ogg/opus, which Whisper accepts as-is.
type Transcriber struct {
	client *openai.Client
}

func NewTranscriber(apiKey string) *Transcriber {
	return &Transcriber{client: openai.NewClient(apiKey)}
}

// Transcribe implements domain.Transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: fileNameFor(mimeType),
	}

	res, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("transcribing audio: %w", err)
	}
	return res.Text, nil
}

// fileNameFor gives the API a filename whose extension matches the
// payload; the OpenAI client sniffs the format from it.
func fileNameFor(mimeType string) string {
	switch mimeType {
	case "audio/mpeg", "audio/mp3":
		return "note.mp3"
	case "audio/mp4":
		return "note.m4a"
	case "audio/wav":
		return "note.wav"
	default:
		return "note.ogg"
	}
}
