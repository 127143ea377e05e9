package ass_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapedtime/cuewords/internal/ass"
)

const sampleScript = "\ufeff[Script Info]\n" +
	"; comment line\n" +
	"Title: Friends S01E01\n" +
	"ScriptType: v4.00+\n" +
	"\n" +
	"[V4+ Styles]\n" +
	"Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n" +
	"Style: Default,@华文楷体,20,&H00FFFFFF,&HF0000000,&H00000000,&H32000000,0,0,0,0,100,100,0,0,1,2,1,2,5,5,2,134\n" +
	"\n" +
	"[Events]\n" +
	"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n" +
	"Dialogue: 0,0:00:01.50,0:00:03.20,Default,,0000,0000,0000,,{\\fn华文楷体}没什么可说的\\N{\\fnCronos Pro Subhead\\fs14}There's nothing to tell, he's just some guy\n" +
	"Comment: 0,0:00:02.00,0:00:03.00,Default,,0,0,0,,ignored\n" +
	"Dialogue: 0,1:02:03.04,1:02:05.00,Default,,0,0,0,,plain text\n"

func TestParse(t *testing.T) {
	script, err := ass.ParseString(sampleScript)
	require.NoError(t, err)

	assert.Equal(t, "Friends S01E01", script.Info["Title"])

	require.Len(t, script.Styles, 1)
	assert.Equal(t, "Default", script.Styles[0].Name)
	assert.Equal(t, "华文楷体", script.Styles[0].FontName)
	style, ok := script.StyleByName("Default")
	require.True(t, ok)
	assert.Equal(t, "20", style.Fields["Fontsize"])

	require.Len(t, script.Events, 2, "comment events are skipped")

	first := script.Events[0]
	assert.Equal(t, 1500*time.Millisecond, first.Start)
	assert.Equal(t, 3200*time.Millisecond, first.End)
	assert.Equal(t, "Default", first.Style)
	assert.Equal(t, 12, first.Line)
	require.Len(t, first.Runs, 2)
	assert.Equal(t, "没什么可说的\\N", first.Runs[0].Text)
	assert.Equal(t, "华文楷体", first.Runs[0].Font())
	assert.Equal(t, "There's nothing to tell, he's just some guy", first.Runs[1].Text,
		"commas inside Text are preserved")
	assert.Equal(t, "Cronos Pro Subhead", first.Runs[1].Font())
	assert.True(t, first.Runs[1].HasTag("fs", "14"))

	second := script.Events[1]
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second+40*time.Millisecond, second.Start)
	require.Len(t, second.Runs, 1)
	assert.Empty(t, second.Runs[0].Tags)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "no events section",
			content: "[Script Info]\nTitle: x\n",
			wantErr: ass.ErrMissingEvents,
		},
		{
			name:    "dialogue before format",
			content: "[Events]\nDialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,hi\n",
			wantErr: ass.ErrMissingFormat,
		},
		{
			name:    "bad timestamp",
			content: "[Events]\nFormat: Layer, Start, End, Style, Text\nDialogue: 0,00:01.00,0:00:02.00,Default,hi\n",
			wantErr: ass.ErrInvalidTimestamp,
		},
		{
			name:    "too few fields",
			content: "[Events]\nFormat: Layer, Start, End, Style, Text\nDialogue: 0,0:00:01.00\n",
			wantErr: ass.ErrInvalidLine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ass.ParseString(tt.content)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestParseEmptyEvents(t *testing.T) {
	script, err := ass.ParseString("[Events]\nFormat: Layer, Start, End, Style, Text\n")
	require.NoError(t, err)
	assert.Empty(t, script.Events)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"0:00:00.00", 0},
		{"0:00:00.29", 290 * time.Millisecond},
		{"0:01:02.50", time.Minute + 2500*time.Millisecond},
		{"1:00:00.01", time.Hour + 10*time.Millisecond},
		{"0:00:07", 7 * time.Second},
	}

	for _, tt := range tests {
		got, err := ass.ParseTimestamp(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "1:2", "a:00:00.00", "0:b:00.00", "0:00:xx"} {
		_, err := ass.ParseTimestamp(bad)
		assert.ErrorIs(t, err, ass.ErrInvalidTimestamp, bad)
	}
}
