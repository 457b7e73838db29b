package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestBuildRegionPrompt(t *testing.T) {
	p := BuildRegionPrompt("Kerala")

	assert.Contains(t, p, "information about Kerala state in India")
	assert.Contains(t, p, "Return ONLY a valid JSON object")
	assert.Contains(t, p, "no markdown")
	for _, field := range []string{`"capital"`, `"population"`, `"area"`, `"languages"`, `"history"`, `"culture"`, `"mainImage"`, `"highlights"`} {
		assert.Contains(t, p, field)
	}
	assert.Contains(t, p, "historical background of Kerala")
	assert.Equal(t, p, BuildRegionPrompt("Kerala"), "prompt must be deterministic")
}

func TestBuildVideoScriptPrompt(t *testing.T) {
	p := BuildVideoScriptPrompt("Assam", "Food & festival showcase")
	assert.Contains(t, p, "video script for Assam, India")
	assert.Contains(t, p, `"Food & festival showcase"`)
	assert.Contains(t, p, "timestamps")
}

func TestBuildDecodePrompt(t *testing.T) {
	p := BuildDecodePrompt("ਸਤ ਸ੍ਰੀ ਅਕਾਲ")
	assert.Contains(t, p, "ਸਤ ਸ੍ਰੀ ਅਕਾਲ")
	assert.Contains(t, p, "**Detected Language/Script:**")
}

func TestFailureKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{fmt.Errorf("gemini: %w", ErrGeneration), "generation"},
		{fmt.Errorf("%w: no span", ErrExtraction), "extraction"},
		{fmt.Errorf("%w: bad", ErrParse), "parse"},
		{fmt.Errorf("%w: missing capital", ErrValidation), "validation"},
		{ErrEmptyRegion, "invalid_request"},
		{fmt.Errorf("%w: type \"text/plain\"", ErrUnsupportedAttachment), "invalid_request"},
		{errors.New("boom"), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FailureKind(tt.err))
	}
}

func TestIsRetrievalFailure(t *testing.T) {
	assert.True(t, IsRetrievalFailure(fmt.Errorf("x: %w", ErrParse)))
	assert.False(t, IsRetrievalFailure(ErrEmptyRegion))
	assert.False(t, IsRetrievalFailure(nil))
}

func TestNewRegionEvent(t *testing.T) {
	at := time.Date(2025, time.October, 2, 9, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(at))
	defer SetClock(nil)

	ev := NewRegionEvent("Goa", RegionRecord{Capital: "Panaji"})
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "Goa", ev.Region)
	assert.Equal(t, "Panaji", ev.Record.Capital)
	assert.Equal(t, at, ev.GeneratedAt)

	other := NewRegionEvent("Goa", RegionRecord{})
	assert.NotEqual(t, ev.ID, other.ID)
}

func TestFindRegion(t *testing.T) {
	r, ok := FindRegion("Tamil Nadu")
	assert.True(t, ok)
	assert.Equal(t, "tn", r.ID)

	_, ok = FindRegion("tamil nadu")
	assert.False(t, ok, "lookup is case sensitive")
	_, ok = FindRegion("Atlantis")
	assert.False(t, ok)
	assert.Len(t, IndiaRegions, 36)
}

func TestAttachment_Validate(t *testing.T) {
	tests := map[string]struct {
		att     Attachment
		wantErr bool
	}{
		"png":          {Attachment{MIMEType: "image/png", Data: []byte{1}}, false},
		"upper jpeg":   {Attachment{MIMEType: "IMAGE/JPEG", Data: []byte{1}}, false},
		"pdf":          {Attachment{MIMEType: "application/pdf", Data: []byte("%PDF")}, false},
		"plain text":   {Attachment{MIMEType: "text/plain", Data: []byte("hi")}, true},
		"empty data":   {Attachment{MIMEType: "image/png"}, true},
		"too large":    {Attachment{MIMEType: "image/png", Data: make([]byte, MaxAttachmentBytes+1)}, true},
		"missing type": {Attachment{Data: []byte{1}}, true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.att.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedAttachment)
				return
			}
			assert.NoError(t, err)
		})
	}
}
