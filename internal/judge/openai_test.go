package judge

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeOpenAI serves the two endpoints the judge pipeline calls.
func fakeOpenAI(t *testing.T, transcript, verdictJSON string, gotUpload *[]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/audio/transcriptions":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("parse multipart: %v", err)
			}
			if got := r.FormValue("model"); got != "whisper-1" {
				t.Errorf("transcription model = %q, want whisper-1", got)
			}
			f, _, err := r.FormFile("file")
			if err != nil {
				t.Errorf("file part: %v", err)
			} else {
				*gotUpload, _ = io.ReadAll(f)
				f.Close()
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"text":%q}`, transcript)

		case "/chat/completions":
			body, _ := io.ReadAll(r.Body)
			if !bytes.Contains(body, []byte("json_object")) {
				t.Error("chat request does not ask for JSON mode")
			}
			w.Header().Set("Content-Type", "application/json")
			resp := map[string]any{
				"choices": []map[string]any{{
					"message": map[string]any{"role": "assistant", "content": verdictJSON},
				}},
			}
			json.NewEncoder(w).Encode(resp)

		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
}

func TestOpenAIJudgeTranscribesThenScores(t *testing.T) {
	const transcript = "أبدأ بالحمد مصليا"
	verdict := `{"score":92,"transcription":"ignored","errors":[],"feedback":"Mumtaz"}`

	var upload []byte
	srv := fakeOpenAI(t, transcript, verdict, &upload)
	defer srv.Close()

	j, err := NewOpenAIJudge(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewOpenAIJudge: %v", err)
	}

	pcm := bytes.Repeat([]byte{0x01, 0x02}, 800)
	v, err := j.Evaluate(context.Background(), Clip{Data: pcm, MIMEType: "audio/pcm;rate=16000"}, "expected verse")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if v.Score != 92 {
		t.Errorf("Score = %d, want 92", v.Score)
	}
	// Whisper's output wins over whatever the chat model echoes back.
	if v.Transcription != transcript {
		t.Errorf("Transcription = %q, want %q", v.Transcription, transcript)
	}

	// Raw PCM must arrive at the transcription endpoint inside a WAV container.
	if len(upload) < 44 || string(upload[:4]) != "RIFF" || string(upload[8:12]) != "WAVE" {
		t.Fatalf("upload is not a WAV file: % x", upload[:min(len(upload), 12)])
	}
	if rate := binary.LittleEndian.Uint32(upload[24:28]); rate != 16000 {
		t.Errorf("WAV sample rate = %d, want 16000", rate)
	}
	if dataLen := binary.LittleEndian.Uint32(upload[40:44]); int(dataLen) != len(pcm) {
		t.Errorf("WAV data length = %d, want %d", dataLen, len(pcm))
	}
}

func TestOpenAIJudgeRejectsEmptyClip(t *testing.T) {
	j, err := NewOpenAIJudge(OpenAIConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewOpenAIJudge: %v", err)
	}
	_, err = j.Evaluate(context.Background(), Clip{MIMEType: "audio/pcm;rate=16000"}, "text")
	if err == nil {
		t.Fatal("expected error for empty clip")
	}
}

func TestPCMSampleRate(t *testing.T) {
	cases := []struct {
		mime string
		want int
	}{
		{"audio/pcm;rate=16000", 16000},
		{"audio/pcm;rate=44100", 44100},
		{"audio/pcm", 16000},
		{"audio/pcm;rate=bogus", 16000},
	}
	for _, tc := range cases {
		if got := pcmSampleRate(tc.mime); got != tc.want {
			t.Errorf("pcmSampleRate(%q) = %d, want %d", tc.mime, got, tc.want)
		}
	}
}
