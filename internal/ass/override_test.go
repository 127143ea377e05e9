package ass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRuns(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Run
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "plain",
			text: "hello",
			want: []Run{{Text: "hello"}},
		},
		{
			name: "text before first block",
			text: `中文\N{\fnArial}English`,
			want: []Run{
				{Text: `中文\N`},
				{Text: "English", Tags: []Tag{{Name: "fn", Value: "Arial"}}},
			},
		},
		{
			name: "break as its own run",
			text: `{\fnA}中文{\r}\N{\fnB}English`,
			want: []Run{
				{Text: "中文", Tags: []Tag{{Name: "fn", Value: "A"}}},
				{Text: `\N`, Tags: []Tag{{Name: "r", Value: ""}}},
				{Text: "English", Tags: []Tag{{Name: "fn", Value: "B"}}},
			},
		},
		{
			name: "adjacent blocks merge",
			text: `{\an8}{\fnA}text`,
			want: []Run{
				{Text: "text", Tags: []Tag{{Name: "an", Value: "8"}, {Name: "fn", Value: "A"}}},
			},
		},
		{
			name: "trailing block",
			text: `text{\fs10}`,
			want: []Run{
				{Text: "text"},
				{Text: "", Tags: []Tag{{Name: "fs", Value: "10"}}},
			},
		},
		{
			name: "unterminated block is text",
			text: `a{\fnB`,
			want: []Run{{Text: `a{\fnB`}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitRuns(tt.text))
		})
	}
}

func TestParseTags(t *testing.T) {
	tags := ParseTags(`\fnCronos Pro Subhead\fscx80\fs78\b1\bord0.5\3c&H40ECED&\pos(1024,915.17)\t(0,500,\fs20)\rSongTi`)
	require.Len(t, tags, 9)

	assert.Equal(t, Tag{Name: "fn", Value: "Cronos Pro Subhead"}, tags[0])
	assert.Equal(t, Tag{Name: "fscx", Value: "80"}, tags[1])
	assert.Equal(t, Tag{Name: "fs", Value: "78"}, tags[2])
	assert.Equal(t, Tag{Name: "b", Value: "1"}, tags[3])
	assert.Equal(t, Tag{Name: "bord", Value: "0.5"}, tags[4])
	assert.Equal(t, Tag{Name: "3c", Value: "&H40ECED&"}, tags[5])
	assert.Equal(t, Tag{Name: "pos", Value: "1024,915.17"}, tags[6])
	assert.Equal(t, Tag{Name: "t", Value: `0,500,\fs20`}, tags[7])
	assert.Equal(t, Tag{Name: "r", Value: "SongTi"}, tags[8])
}

func TestRunFont(t *testing.T) {
	r := Run{Tags: []Tag{{Name: "fn", Value: "A"}, {Name: "fs", Value: "2"}, {Name: "fn", Value: "B"}}}
	assert.Equal(t, "B", r.Font())
	assert.Equal(t, "", Run{}.Font())
}

func TestStripOverrides(t *testing.T) {
	assert.Equal(t, "中文\nEnglish words", StripOverrides(`{\fnA}中文\N{\fnB}English\hwords`))
	assert.Equal(t, "{literal}", StripOverrides(`\{literal\}`))
}
