package sheet

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/domain/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Golden(t *testing.T) {
	added := 2
	tests := []struct {
		name     string
		resp     sheet.Response
		callback string
		ct       string
	}{
		{
			name: "ping",
			resp: sheet.Response{Success: true, Message: sheet.ReadyMessage, Version: sheet.APIVersion},
			ct:   contentTypeJSON,
		},
		{
			name:     "ping_jsonp",
			resp:     sheet.Response{Success: true, Message: sheet.ReadyMessage, Version: sheet.APIVersion},
			callback: "cb",
			ct:       contentTypeJS,
		},
		{
			name: "get_all",
			resp: sheet.Response{Success: true, Data: []record.Record{{"id": "p1", "step": "masak", "fotoCount": 2}}},
			ct:   contentTypeJSON,
		},
		{
			name: "invalid_key",
			resp: sheet.Response{Error: sheet.MsgInvalidAPIKey},
			ct:   contentTypeJSON,
		},
		{
			name:     "duplicate_phone_jsonp",
			resp:     sheet.Response{Error: sheet.MsgDuplicatePhone, Duplicate: true},
			callback: "app.onUser",
			ct:       contentTypeJS,
		},
		{
			name: "sync",
			resp: sheet.Response{Success: true, Message: "2 records added", Added: &added},
			ct:   contentTypeJSON,
		},
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct, err := Render(tt.resp, tt.callback)
			require.NoError(t, err)
			assert.Equal(t, tt.ct, ct)
			g.Assert(t, tt.name, body)
		})
	}
}

func TestRender_RejectsUnsafeCallback(t *testing.T) {
	for _, cb := range []string{"alert(1)//", "1cb", "cb;x", "a..b", "<script>"} {
		body, ct, err := Render(sheet.Response{Success: true}, cb)
		require.NoError(t, err)
		assert.Equal(t, contentTypeJSON, ct, cb)
		assert.Equal(t, `{"success":true}`, string(body))
	}
}
