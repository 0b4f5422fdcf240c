package preview

import "testing"

func TestResponseBody(t *testing.T) {
	tests := []struct {
		name     string
		in       []byte
		kind     BodyKind
		content  string
		fallback bool
	}{
		{
			name: "no marker",
			in:   []byte("\x0a\x12binary envelope without a body"),
			kind: BodyNotFound,
		},
		{
			name:    "complete body after prefix",
			in:      []byte(`...{"choices":[{"message":{"content":"hello"}}]}`),
			kind:    BodyFound,
			content: "hello",
		},
		{
			name:     "truncated body",
			in:       []byte(`{"choices":[{"message":{"content":"partial`),
			kind:     BodyFound,
			content:  "partial",
			fallback: true,
		},
		{
			name:     "trailing envelope bytes",
			in:       []byte("\x08\xc8\x01\x1a\x10{\"choices\":[{\"message\":{\"role\":\"assistant\",\"content\":\"hi there\"}}]}\x22\x04\x00\x01"),
			kind:     BodyFound,
			content:  "hi there",
			fallback: true,
		},
		{
			name:     "escaped quotes in fallback",
			in:       []byte(`{"id":"x","choices":[{"message":{"content": "say \"hi\" now"}}]`),
			kind:     BodyFound,
			content:  `say "hi" now`,
			fallback: true,
		},
		{
			name: "shape mismatch",
			in:   []byte(`{"object":"list","data":[]}`),
			kind: BodyEmpty,
		},
		{
			name: "choices without message",
			in:   []byte(`{"choices":[{"delta":{"content":"x"}}]}`),
			kind: BodyEmpty,
		},
		{
			name: "empty choices",
			in:   []byte(`{"choices":[]}`),
			kind: BodyEmpty,
		},
		{
			name:    "unexpected field types elsewhere",
			in:      []byte(`{"id":42,"created":"yesterday","choices":[{"index":"0","message":{"content":"hi"}}]}`),
			kind:    BodyFound,
			content: "hi",
		},
		{
			name: "null content",
			in:   []byte(`{"choices":[{"message":{"role":"assistant","content":null,"tool_calls":[{"id":"call_1"}]}}]}`),
			kind: BodyEmpty,
		},
		{
			name: "missing content",
			in:   []byte(`{"choices":[{"message":{"role":"assistant"}}]}`),
			kind: BodyEmpty,
		},
		{
			name: "non-string content",
			in:   []byte(`{"choices":[{"message":{"content":[{"type":"text","text":"hi"}]}}]}`),
			kind: BodyEmpty,
		},
		{
			name: "choices is an object",
			in:   []byte(`{"choices":{"message":{"content":"hi"}}}`),
			kind: BodyEmpty,
		},
		{
			name: "message is a string",
			in:   []byte(`{"choices":[{"message":"hi"}]}`),
			kind: BodyEmpty,
		},
		{
			name: "unparseable without content",
			in:   []byte(`{"error":{"message":"rate limited"`),
			kind: BodyMalformed,
		},
		{
			name:    "invalid utf-8 replaced",
			in:      []byte("{\"choices\":[{\"message\":{\"content\":\"a\xffb\"}}]}"),
			kind:    BodyFound,
			content: "a�b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResponseBody(tt.in)
			if got.Kind != tt.kind {
				t.Fatalf("expected kind %s, got %s", tt.kind, got.Kind)
			}
			if got.Content != tt.content {
				t.Errorf("expected content %q, got %q", tt.content, got.Content)
			}
			if got.Fallback != tt.fallback {
				t.Errorf("expected fallback %v, got %v", tt.fallback, got.Fallback)
			}
		})
	}
}

func TestResponseBodyOffset(t *testing.T) {
	got := ResponseBody([]byte("abc{\"choices\":[]}"))
	if got.Offset != 3 {
		t.Errorf("expected offset 3, got %d", got.Offset)
	}
	if got := ResponseBody([]byte("none")); got.Offset != -1 {
		t.Errorf("expected offset -1, got %d", got.Offset)
	}
}
